// Package camera turns enumerated media devices into cameras.
//
// A Manager drives one enumeration backend: Start scans it and runs
// the configured pipeline factories over the devices found, building a
// Camera for every device a pipeline claims. A single run-loop
// goroutine then applies hotplug events in arrival order, adding and
// retiring cameras as hardware comes and goes. Retired cameras stay
// readable; their device snapshots outlive the hardware.
//
// Processes that want exactly one manager use the shared handle:
//
//	handle, err := camera.Acquire(ctx, camera.Config{
//		NewBackend: func() (enumerate.Backend, error) {
//			return enumerate.NewWatchBackend(enumerate.WatchConfig{})
//		},
//		Pipelines: pipeline.Factories(),
//	})
//	if err != nil {
//		return err
//	}
//	defer handle.Close()
//
//	for _, cam := range handle.Manager().Cameras() {
//		fmt.Println(cam.ID(), cam.Name())
//	}
package camera
