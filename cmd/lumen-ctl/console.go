package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/persistence"
)

// Console is the interactive command loop around a running manager.
//
// The console never touches the manager's enumerator directly: the
// enumerator belongs to the manager's run loop. Everything shown here
// comes from the manager's concurrency-safe surface (camera list,
// device table snapshots), and hotplug is driven through the fixture
// backend's injection API, which hands events to the run loop the same
// way real hardware would.
type Console struct {
	mgr     *camera.Manager
	fixture *enumerate.FixtureBackend
	rl      *readline.Instance
}

// NewConsole creates a console for mgr. fixture may be nil when the
// manager runs on a backend that cannot inject events.
func NewConsole(mgr *camera.Manager, fixture *enumerate.FixtureBackend) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lumen> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		mgr:     mgr,
		fixture: fixture,
		rl:      rl,
	}, nil
}

// Stdout returns a writer coordinated with the prompt. Event callbacks
// must write through it to avoid mangling the command line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop and blocks until the user
// exits.
func (c *Console) Run() error {
	defer c.rl.Close()

	added := c.mgr.OnCameraAdded(func(cam *camera.Camera) {
		fmt.Fprintf(c.rl.Stdout(), "camera added: %s (%s)\n", cam.ID(), cam.Name())
	})
	defer added.Cancel()

	removed := c.mgr.OnCameraRemoved(func(cam *camera.Camera) {
		fmt.Fprintf(c.rl.Stdout(), "camera removed: %s (%s)\n", cam.ID(), cam.Name())
	})
	defer removed.Cancel()

	fmt.Fprintf(c.rl.Stdout(), "%s - type 'help' for commands\n", c.mgr.Version())

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "list", "ls":
			c.cmdList()

		case "inspect", "i":
			c.cmdInspect(args)

		case "devices", "d":
			c.cmdDevices()

		case "match", "m":
			c.cmdMatch(args)

		case "add":
			c.cmdAdd(args)

		case "remove", "rm":
			c.cmdRemove(args)

		case "save":
			c.cmdSave(args)

		case "status":
			c.cmdStatus()

		case "version", "v":
			fmt.Fprintln(c.rl.Stdout(), c.mgr.Version())

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Lumen Console Commands:
  Inspection:
    list               - List cameras
    inspect <id>       - Show one camera in detail
    devices            - Show the device table
    match <drv> [ent]  - Evaluate a device match against the table
    status             - Show manager state and session

  Hotplug (fixture backend only):
    add <node>         - Simulate a device node appearing
    remove <node>      - Simulate a device node going away

  General:
    save <path>        - Save a device table snapshot to a JSON file
    version            - Show the library version
    help               - Show this help
    quit               - Exit the console`)
}

// cmdList handles the list command.
func (c *Console) cmdList() {
	cams := c.mgr.Cameras()
	if len(cams) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No cameras.")
		return
	}

	for _, cam := range cams {
		state := ""
		if cam.Removed() {
			state = " [device gone]"
		}
		fmt.Fprintf(c.rl.Stdout(), "  %-28s %-20s %s%s\n",
			cam.ID(), cam.Name(), cam.Node(), state)
	}
}

// cmdInspect handles the inspect command.
func (c *Console) cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: inspect <camera-id>")
		return
	}

	cam, err := c.mgr.Get(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	dev := cam.Device()
	fmt.Fprintf(c.rl.Stdout(), "Camera %s\n", cam.ID())
	fmt.Fprintf(c.rl.Stdout(), "  name:        %s\n", cam.Name())
	fmt.Fprintf(c.rl.Stdout(), "  pipeline:    %s\n", cam.Pipeline())
	fmt.Fprintf(c.rl.Stdout(), "  node:        %s\n", dev.Path())
	fmt.Fprintf(c.rl.Stdout(), "  driver:      %s\n", dev.Driver())
	if model := dev.Model(); model != "" {
		fmt.Fprintf(c.rl.Stdout(), "  model:       %s\n", model)
	}
	fmt.Fprintf(c.rl.Stdout(), "  fingerprint: %s\n", dev.Fingerprint())
	fmt.Fprintf(c.rl.Stdout(), "  removed:     %v\n", dev.Removed())
	for _, e := range dev.Entities() {
		fmt.Fprintf(c.rl.Stdout(), "  entity:      %s (%s)\n", e.Name, e.Function)
	}
}

// cmdDevices handles the devices command.
func (c *Console) cmdDevices() {
	infos := c.mgr.DeviceInfos()
	if len(infos) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No devices.")
		return
	}

	for _, info := range infos {
		fmt.Fprintf(c.rl.Stdout(), "  %-20s %-12s %s (%d entities)\n",
			info.Path, info.Driver, info.Fingerprint, len(info.Entities))
	}
}

// cmdMatch handles the match command. The match is evaluated against
// the manager's device table snapshot, so it reflects registry content
// without reaching into the run loop's registry.
func (c *Console) cmdMatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: match <driver> [entity...]")
		fmt.Fprintln(c.rl.Stdout(), "  Example: match vimc \"Sensor A\"")
		return
	}

	driver := args[0]
	required := args[1:]

	for _, info := range c.mgr.DeviceInfos() {
		if matchInfo(info, driver, required) {
			fmt.Fprintf(c.rl.Stdout(), "match: %s (%s)\n", info.Path, info.Fingerprint)
			return
		}
	}
	fmt.Fprintln(c.rl.Stdout(), "No match.")
}

// matchInfo applies DeviceMatch semantics to a device snapshot: exact
// driver equality and every required entity name present.
func matchInfo(info media.DeviceInfo, driver string, required []string) bool {
	if info.Driver != driver {
		return false
	}

	for _, name := range required {
		found := false
		for _, e := range info.Entities {
			if e.Name == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// cmdAdd handles the add command.
func (c *Console) cmdAdd(args []string) {
	if c.fixture == nil {
		fmt.Fprintln(c.rl.Stdout(), "Hotplug simulation needs the fixture backend.")
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: add <node>")
		return
	}

	c.fixture.SimulateAdd(args[0])
}

// cmdRemove handles the remove command.
func (c *Console) cmdRemove(args []string) {
	if c.fixture == nil {
		fmt.Fprintln(c.rl.Stdout(), "Hotplug simulation needs the fixture backend.")
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: remove <node>")
		return
	}

	c.fixture.SimulateRemove(args[0])
}

// cmdSave handles the save command.
func (c *Console) cmdSave(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: save <path>")
		return
	}

	store := persistence.NewSnapshotStore(args[0])
	snap := &persistence.Snapshot{
		Session: c.mgr.Session(),
		Devices: c.mgr.DeviceInfos(),
	}
	if err := store.Save(snap); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Saved %d devices to %s\n", len(snap.Devices), args[0])
}

// cmdStatus handles the status command.
func (c *Console) cmdStatus() {
	fmt.Fprintf(c.rl.Stdout(), "state:   %s\n", c.mgr.State())
	fmt.Fprintf(c.rl.Stdout(), "session: %s\n", c.mgr.Session())
	fmt.Fprintf(c.rl.Stdout(), "cameras: %d\n", len(c.mgr.Cameras()))
	fmt.Fprintf(c.rl.Stdout(), "devices: %d\n", len(c.mgr.DeviceInfos()))
}
