package main

import (
	"fmt"

	"github.com/aeriskit/closet/pkg/closet"
	"github.com/aeriskit/closet/pkg/closetfile"
	"github.com/aeriskit/closet/pkg/telemetry"
)

// openExisting loads path and descends through passphrases, opening and
// pushing a nested frame for every passphrase but the last. It returns the
// OpenCloset (positioned so the deepest frame is the one named by the last
// passphrase's parent) and the drawer that last passphrase unlocked, still
// open at the top of the stack.
func openExisting(path string, passphrases []string, collector *telemetry.Collector) (*closet.OpenCloset, *closet.OpenDrawer, error) {
	if len(passphrases) == 0 {
		return nil, nil, fmt.Errorf("at least one --passphrase is required")
	}

	data, err := closetfile.Read(path)
	if err != nil {
		return nil, nil, err
	}

	top, err := closet.Load(data)
	if err != nil {
		return nil, nil, err
	}

	oc := closet.Create(top)

	var drawer *closet.OpenDrawer
	for i, pass := range passphrases {
		drawer, err = oc.OpenTakeDrawer(pass)
		if err != nil {
			collector.WrongPassphraseAttempted()
			return nil, nil, err
		}
		collector.DrawerOpened()

		if i < len(passphrases)-1 {
			if err := oc.OpenNestedCloset(drawer); err != nil {
				return nil, nil, err
			}
		}
	}

	return oc, drawer, nil
}

// saveAndClose reseals the deepest open drawer and every ancestor frame's
// opened drawer left in place while descending (CloseAndSave walks the
// whole stack deepest-to-shallowest on its own), then writes the result
// back to path atomically and records the save in collector.
func saveAndClose(oc *closet.OpenCloset, drawer *closet.OpenDrawer, path string, collector *telemetry.Collector) error {
	if err := oc.PushBack(drawer); err != nil {
		return err
	}

	data, err := oc.CloseAndSave()
	if err != nil {
		return err
	}
	collector.SaveCompleted()

	return closetfile.Save(path, data)
}
