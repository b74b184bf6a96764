// Package eye pulls frames from heterogeneous video sources — local camera
// devices, video files, RTSP streams, and remote eye export servers — and
// makes the latest frame available to any number of concurrent consumers
// without blocking the capture producer.
//
// Each configured source is a Reader: an independently startable producer
// thread driving a small wait-free ring (see Ring) with latest-or-next
// consumer semantics. A Driver owns a named collection of Readers and an
// optional TCP export server that republishes exportable Readers to other
// processes on the LAN.
//
// # Quick Start
//
// Build a driver from a YAML config file and read frames from one of its
// readers:
//
//	driver, err := eye.MakeDriverFromFile("cameras.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer driver.Close()
//
//	cam, err := driver.Get("front-door")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cam.Start(); err != nil {
//		log.Fatal(err)
//	}
//
//	var frame *eye.Frame
//	frame, err = cam.Get(frame)
//	defer frame.Close()
//
// # Configuration
//
// The config document maps reader names to one of four variants:
//
//	front-door:
//	  Cam: { device: 0, export: true, width: 1280, height: 720, fps: 30 }
//	sample-clip:
//	  Video: { path: "clips/sample.mp4", width: 640, height: 480, fps: 30 }
//	parking-lot:
//	  Rtsp: { url: "rtsp://10.0.0.4/stream1", width: 1920, height: 1080, fps: 15 }
//	remote-front-door:
//	  Client: { ip: "10.0.0.9" }
//
// Only Cam readers may set export: true; a reader not marked for export is
// never reachable from a remote Client reader.
//
// # Constructor Functions
//
// Two entry points build a Driver from configuration:
//
//	// From an already-parsed YAML node, with an explicit base path for
//	// resolving Video readers' relative file paths.
//	driver, err := eye.MakeDriver(basePath, node)
//
//	// Convenience wrapper: reads and parses the file, using its directory
//	// as the base path.
//	driver, err := eye.MakeDriverFromFile("cameras.yaml")
//
// # The Ring
//
// Ring is the one piece of this package worth understanding in detail: a
// fixed-capacity (N≥2, default 2) slot ring shared by exactly one producer
// and any number of consumers, synchronized with only atomic counters and
// per-slot read/write locks — no channel, no central mutex. A consumer
// passes back the count of the last frame it saw and gets the next one, or
// the oldest surviving frame if it has fallen more than N-1 pushes behind.
// See Ring.Pop for the exact selection rule.
//
// # Remote Readers and the Export Server
//
// A Client-configured Reader drives its ring from a TCP request/response
// loop against another process's export server rather than a local device.
// The Driver's Hibernate and WakeUp methods idempotently stop and start its
// own export server; Driver.Status reports whether that server currently
// has active remote connections.
//
// # Error Handling
//
// All package errors are *eye.Error, carrying a semantic Kind (IO, Decode,
// NotRunning, AlreadyRunning, Protocol, Internal, Unimplemented) alongside
// the wrapped cause:
//
//	frame, err := reader.Get(frame)
//	if eye.IsKind(err, eye.KindNotRunning) {
//		// the producer stopped. A reader found stopped when Get is
//		// called has already been through reader.Stop(), and any error
//		// it captured would have been returned instead; a NotRunning
//		// reported while Get was waiting on the ring comes without that
//		// Stop call, and the captured error is returned by the next Get
//		// or Stop
//	}
//
// # Thread Safety
//
// Reader and Driver methods are safe for concurrent use by any number of
// goroutines. Ring.Pop may be called from any number of goroutines, but
// PushFill and PushMove assume a single producer goroutine. A Reader's underlying capture device is owned
// exclusively by its own producer goroutine for the reader's running
// lifetime; nothing else touches it.
package eye
