package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aeriskit/closet/pkg/closet"
	"github.com/aeriskit/closet/pkg/closetfile"
	"github.com/aeriskit/closet/pkg/telemetry"
)

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func createCommand() {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl create --file PATH --passphrase PASS [--passphrase PASS ...]

Create a new closet file. The last --passphrase names the drawer that
gets created; any earlier ones must each name a drawer nested inside the
previous one, created along the way.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	if closetfile.Exists(*file) {
		fail(fmt.Errorf("%s already exists", *file))
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	top, err := closet.New((*passphrases)[0])
	if err != nil {
		fail(err)
	}
	collector.DrawerCreated()

	oc := closet.Create(top)
	drawer, err := oc.OpenTakeDrawer((*passphrases)[0])
	if err != nil {
		fail(err)
	}
	collector.DrawerOpened()

	for _, pass := range (*passphrases)[1:] {
		if err := oc.OpenNestedCloset(drawer); err != nil {
			fail(err)
		}
		drawer, err = oc.CreateTakeDrawer(pass)
		if err != nil {
			fail(err)
		}
		collector.DrawerCreated()
	}

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}

	fmt.Printf("Created %s\n", *file)
}

func openCommand() {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl open --file PATH --passphrase PASS [--passphrase PASS ...]

Open a drawer (descending through nested ones) and list its entries.
Values are shown unless the drawer's settings request they be hidden.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	oc, drawer, err := openExisting(*file, *passphrases, collector)
	if err != nil {
		fail(err)
	}

	printEntries(drawer)

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}
}

func printEntries(drawer *closet.OpenDrawer) {
	if len(drawer.Content.Entries) == 0 {
		fmt.Println("(no entries)")
		return
	}
	for _, e := range drawer.Content.Entries {
		if drawer.Content.Settings.HideValues && !drawer.Content.Settings.OpenAllValues {
			fmt.Printf("%s\t<hidden>\n", e.Name)
		} else {
			fmt.Printf("%s\t%s\n", e.Name, e.Value)
		}
	}
}

func addCommand() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	name := fs.String("name", "", "Entry name")
	value := fs.String("value", "", "Entry value")
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl add --file PATH --passphrase PASS [...] --name NAME --value VALUE

Add a new entry, or update the value of the first entry with that name,
in the drawer named by the last --passphrase.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) == 0 || *name == "" {
		fs.Usage()
		os.Exit(1)
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	oc, drawer, err := openExisting(*file, *passphrases, collector)
	if err != nil {
		fail(err)
	}

	updated := false
	for i := range drawer.Content.Entries {
		if drawer.Content.Entries[i].Name == *name {
			drawer.Content.Entries[i].Value = *value
			updated = true
			break
		}
	}
	if !updated {
		drawer.Content.Entries = append(drawer.Content.Entries, closet.Entry{Name: *name, Value: *value})
	}

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}

	fmt.Printf("Saved %s\n", *name)
}

func rmCommand() {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	name := fs.String("name", "", "Entry name to remove")
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl rm --file PATH --passphrase PASS [...] --name NAME

Remove every entry with the given name from the drawer named by the
last --passphrase.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) == 0 || *name == "" {
		fs.Usage()
		os.Exit(1)
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	oc, drawer, err := openExisting(*file, *passphrases, collector)
	if err != nil {
		fail(err)
	}

	kept := drawer.Content.Entries[:0]
	removed := 0
	for _, e := range drawer.Content.Entries {
		if e.Name == *name {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	drawer.Content.Entries = kept

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}

	fmt.Printf("Removed %d entr(ies) named %s\n", removed, *name)
}

func mkdrawerCommand() {
	fs := flag.NewFlagSet("mkdrawer", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl mkdrawer --file PATH --passphrase PASS [--passphrase PASS ...]

Create a drawer nested one level inside the drawer reached by every
--passphrase but the last; the last --passphrase names the new drawer.
Requires at least two --passphrase flags.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) < 2 {
		fs.Usage()
		os.Exit(1)
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	parentPassphrases := (*passphrases)[:len(*passphrases)-1]
	newPassphrase := (*passphrases)[len(*passphrases)-1]

	oc, parent, err := openExisting(*file, parentPassphrases, collector)
	if err != nil {
		fail(err)
	}

	if err := oc.OpenNestedCloset(parent); err != nil {
		fail(err)
	}
	drawer, err := oc.CreateTakeDrawer(newPassphrase)
	if err != nil {
		fail(err)
	}
	collector.DrawerCreated()

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}

	fmt.Println("Created nested drawer")
}

func passwdCommand() {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	file, passphrases, logLevel, logFormat, tracing, metricsAddr := registerCommonFlags(fs)
	newPassphrase := fs.String("new-passphrase", "", "New passphrase for the deepest opened drawer")
	fs.Usage = func() {
		fmt.Println(`USAGE: closetctl passwd --file PATH --passphrase PASS [...] --new-passphrase NEW

Change the passphrase of the drawer named by the last --passphrase.`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *file == "" || len(*passphrases) == 0 || *newPassphrase == "" {
		fs.Usage()
		os.Exit(1)
	}

	collector, _, err := setupObservability(*logLevel, *logFormat, *tracing)
	if err != nil {
		fail(err)
	}
	stopMetrics := maybeServeMetrics(*metricsAddr, collector, telemetry.GetLogger())
	defer stopMetrics()

	oc, drawer, err := openExisting(*file, *passphrases, collector)
	if err != nil {
		fail(err)
	}

	if err := oc.ChangePassword(drawer, *newPassphrase); err != nil {
		fail(err)
	}

	if err := saveAndClose(oc, drawer, *file, collector); err != nil {
		fail(err)
	}

	fmt.Println("Passphrase changed")
}
