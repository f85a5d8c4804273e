// Package media implements the media device model.
//
// A media device is a kernel-exposed node representing a hardware capture or
// processing pipeline: a node path (its identity), the driver that bound it,
// and a graph of named entities (sensors, processing blocks, video nodes).
//
// # Ownership
//
// Devices are built by an introspector when a node is discovered, registered
// with the enumerator registry, and handed out to pipelines that claim them.
// The same *Device is shared by the registry and every claimant. Removal from
// the registry only removes future discoverability:
//
//   - a held *Device stays fully readable after removal
//   - mutation attempts after removal are ignored, not undefined
//
// # Claiming
//
// Pipelines take exclusive ownership of a device with [Device.Acquire] before
// building cameras on top of it, and [Device.Release] to give it back. The
// busy flag only coordinates claiming; it does not restrict reads.
//
// # Identity
//
// The node path is the registry identity. [Device.Fingerprint] additionally
// derives a stable 64-bit content identifier from the driver, path, model,
// and entity names, used for camera IDs and network export.
package media
