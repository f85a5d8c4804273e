// Package netcam implements mDNS/DNS-SD discovery for network-exported cameras.
//
// Hosts that export a local capture device onto the network advertise a
// single service type:
//
// # Camera Discovery (_lumen-cam._tcp)
//
// One instance per exported device node. Instance name format:
// LUMEN-<fingerprint>, where the fingerprint is the 16-hex-char device
// fingerprint computed by pkg/media. TXT records include: node (device
// node path on the exporting host), drv (kernel driver), fp (fingerprint),
// and optionally model and ent (comma-separated entity names).
//
// The Advertiser side registers one zeroconf server per exported node;
// the Exporter keeps a host's advertisement set current as devices come
// and go. The Browser side aggregates answers from multiple interfaces
// into a single entry per instance and reports a camera removed only
// once its records have disappeared from all interfaces. Browse results
// feed the fleet enumerator, which presents each discovered camera as a
// device node alongside locally attached hardware.
package netcam
