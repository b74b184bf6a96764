// driver.go: named collection of readers plus optional export server
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"
	"sort"
)

// DriverStatus is the aggregate state the host observes, §4.F.
type DriverStatus int

const (
	StatusIdle DriverStatus = iota
	StatusRunningLazy
	StatusRunningNormal
	StatusRunningBusy
)

func (s DriverStatus) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunningLazy:
		return "Running/Lazy"
	case StatusRunningNormal:
		return "Running/Normal"
	case StatusRunningBusy:
		return "Running/Busy"
	default:
		return "Unknown"
	}
}

// Driver is the named mapping of Readers plus the optional export server
// that republishes exportable readers over the wire. Readers are shared,
// never owned exclusively: the driver, the export server, and the host's
// own consumers all hold the same Reader handles.
type Driver struct {
	readers map[string]Reader
	names   []string
	export  *exportServer
}

// NewDriver builds a Driver over an already-constructed name→Reader
// mapping. Names are sorted once so iteration order is deterministic.
func NewDriver(readers map[string]Reader) *Driver {
	names := make([]string, 0, len(readers))
	for name := range readers {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Driver{
		readers: readers,
		names:   names,
		export:  newExportServer(readers),
	}
}

// Names returns the reader names in deterministic (sorted) order.
func (d *Driver) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Get looks up a reader by name.
func (d *Driver) Get(name string) (Reader, error) {
	r, ok := d.readers[name]
	if !ok {
		return nil, newErr(KindInternal, "driver.get", fmt.Errorf("no such reader %q", name))
	}
	return r, nil
}

// Status reports the aggregate state, §4.F, in order of precedence: a busy
// export server outranks any individually running reader, which in turn
// outranks a merely-listening export server.
func (d *Driver) Status() DriverStatus {
	if d.export.Busy() {
		return StatusRunningBusy
	}
	for _, name := range d.names {
		if d.readers[name].IsRunning() {
			return StatusRunningNormal
		}
	}
	if d.export.IsRunning() {
		return StatusRunningLazy
	}
	return StatusIdle
}

// Hibernate stops the export server. Readers are left exactly as they are.
// Idempotent.
func (d *Driver) Hibernate() error {
	return d.export.Stop()
}

// WakeUp starts the export server. Idempotent.
func (d *Driver) WakeUp() error {
	if err := d.export.Start(); err != nil {
		if IsKind(err, KindAlreadyRunning) {
			return nil
		}
		return err
	}
	return nil
}

// Close stops the export server and every running reader, collecting (and
// returning) the first error encountered while still attempting the rest.
func (d *Driver) Close() error {
	var firstErr error
	if err := d.export.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	for _, name := range d.names {
		r := d.readers[name]
		if !r.IsRunning() {
			continue
		}
		if err := r.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
