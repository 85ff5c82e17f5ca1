package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amassoud-ap34/rack-designer/internal/designer"
	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/export"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

// staticPrompter answers every rename request with a fixed text.
type staticPrompter string

func (p staticPrompter) RequestText(_, _ string, reply func(string, bool)) {
	reply(string(p), true)
}

// openSession loads path into a new designer session.
func openSession(cmd *cobra.Command, path string, opts ...designer.Option) (*designer.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	s := newSession(cmd, opts...)
	if err := s.LoadProject(data); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(cmd *cobra.Command, opts ...designer.Option) *designer.Session {
	base := []designer.Option{
		designer.WithLogger(loggerFromContext(cmd.Context())),
		designer.WithConfig(settingsFromContext(cmd.Context()).config),
	}
	return designer.New(append(base, opts...)...)
}

func saveSession(path string, s *designer.Session) error {
	return project.Save(path, s.Snapshot())
}

// findRack resolves a rack by ID or by case-insensitive name.
func findRack(p *model.Project, ref string) (*model.Rack, error) {
	if r := p.Rack(ref); r != nil {
		return r, nil
	}
	var match *model.Rack
	for _, r := range p.Racks {
		if strings.EqualFold(r.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("rack name %q is ambiguous, use the rack ID", ref)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no rack %q", ref)
	}
	return match, nil
}

// findShelf resolves a rack-mounted shelf by ID or by case-insensitive name.
func findShelf(p *model.Project, ref string) (*model.Element, error) {
	if sh := p.MountedShelf(ref); sh != nil {
		return sh, nil
	}
	var match *model.Element
	for _, sh := range p.Shelves() {
		if sh.Placement.Kind == model.InRack && strings.EqualFold(sh.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("shelf name %q is ambiguous, use the shelf ID", ref)
			}
			match = sh
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no shelf %q", ref)
	}
	return match, nil
}

func newNewCmd() *cobra.Command {
	var (
		racks int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "new <project.json>",
		Short: "Create a project with empty racks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if racks < 0 {
				return fmt.Errorf("--racks must not be negative")
			}
			s := newSession(cmd)
			for i := 0; i < racks; i++ {
				s.AddRack()
			}
			if err := saveSession(path, s); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Created project with %d rack(s)", racks)
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVar(&racks, "racks", 1, "number of empty racks")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <project.json>",
		Short: "Summarize a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), "%s", args[0])
			printProject(cmd, p)
			return nil
		},
	}
}

func printProject(cmd *cobra.Command, p *model.Project) {
	w := cmd.OutOrStdout()
	printKeyValue(w, "Racks", fmt.Sprint(len(p.Racks)))
	printKeyValue(w, "Devices", fmt.Sprint(p.DeviceCount()))
	printKeyValue(w, "Shelves", fmt.Sprint(len(p.Shelves())))

	entries := export.Entries(p)
	for _, r := range p.Racks {
		free := engine.FreeUnits(r)
		used := model.RackUnits - free
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render(r.Name)+" "+usageBar(used, model.RackUnits, 21))
		printStats(w,
			fmt.Sprintf("%d elements", len(r.Elements)),
			fmt.Sprintf("%dU used", used),
			fmt.Sprintf("%dU free", free))
		for _, e := range entries {
			if e.RackID != r.ID {
				continue
			}
			line := fmt.Sprintf("%-9s %s (%dU)", e.Units(), e.Name, e.Size)
			if e.IsShelf {
				line += " [" + string(e.ShelfType) + "]"
			}
			if loc := e.Location(); loc != "" {
				line = fmt.Sprintf("%-9s   %s (%dU) in %s", "", e.Name, e.Size, loc)
			}
			printDetail(w, "%s", line)
		}
	}
}

// ErrInvalidProject is returned by validate when a document loads but its
// layout breaks an occupancy rule.
var ErrInvalidProject = errors.New("invalid project")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.json>...",
		Short: "Check project files for format and occupancy errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if err := validateFile(path); err != nil {
					printError(w, "%s: %v", path, err)
					failed++
					continue
				}
				printSuccess(w, "%s", path)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d file(s) failed", ErrInvalidProject, failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(path string) error {
	p, err := project.Load(path)
	if err != nil {
		return err
	}
	return checkProject(p)
}

// checkProject re-runs the occupancy checks on a decoded project.
func checkProject(p *model.Project) error {
	for _, r := range p.Racks {
		if a, b, ok := engine.ValidateRack(r); !ok {
			if b == nil {
				return fmt.Errorf("rack %q: %q is outside the rack", r.Name, a.Name)
			}
			return fmt.Errorf("rack %q: %q overlaps %q", r.Name, a.Name, b.Name)
		}
		for _, el := range r.Elements {
			if el.IsShelf() && !engine.ValidateShelf(el) {
				return fmt.Errorf("rack %q: shelf %q has inconsistent slots", r.Name, el.Name)
			}
		}
	}
	return nil
}

func newAddRackCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add-rack <project.json>",
		Short: "Append an empty rack to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []designer.Option
			if name != "" {
				opts = append(opts, designer.WithPrompter(staticPrompter(name)))
			}
			s, err := openSession(cmd, args[0], opts...)
			if err != nil {
				return err
			}
			id := s.AddRack()
			if name != "" {
				if err := s.RenameRack(id); err != nil {
					return err
				}
			}
			if err := saveSession(args[0], s); err != nil {
				return err
			}
			var rackName string
			s.View(func(p *model.Project) { rackName = p.Rack(id).Name })
			printSuccess(cmd.OutOrStdout(), "Added rack %s", StyleValue.Render(rackName))
			printDetail(cmd.OutOrStdout(), "id %s", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "rack name (default: next numbered name)")
	return cmd
}

type addOptions struct {
	rack      string
	name      string
	size      int
	color     string
	fontColor string
	shelf     string
	unit      int
	into      string
	slot      int
}

func (o addOptions) payload() (designer.Payload, error) {
	if o.shelf != "" {
		t := model.NormalizeShelfType(model.ShelfType(o.shelf))
		spec, ok := model.LookupShelf(t)
		if !ok {
			return designer.Payload{}, fmt.Errorf("unknown shelf type %q", o.shelf)
		}
		name := o.name
		if name == "" {
			name = spec.DefaultName
		}
		return designer.ShelfPayload(model.ShelfItem{Name: name, ShelfType: t}), nil
	}
	if o.name == "" {
		return designer.Payload{}, fmt.Errorf("--name is required for devices")
	}
	if !model.ValidDisplayUnits(o.size) {
		return designer.Payload{}, fmt.Errorf("--size must be between 1 and 4, got %d", o.size)
	}
	for _, c := range []string{o.color, o.fontColor} {
		if c == "" {
			continue
		}
		if _, err := model.ParseHexColor(c); err != nil {
			return designer.Payload{}, fmt.Errorf("invalid colour %q: %w", c, err)
		}
	}
	return designer.DevicePayload(o.size, model.PaletteEntry{Name: o.name, Color: o.color, FontColor: o.fontColor}), nil
}

func newAddCmd() *cobra.Command {
	var o addOptions
	cmd := &cobra.Command{
		Use:   "add <project.json>",
		Short: "Place a device or shelf",
		Long: `Place a device or shelf in a rack, or a device into a rack-mounted shelf.

Rack placement uses --unit when that range is free and otherwise the first
free range from the top. Units are printed labels, 42 at the top.
3U and 4U devices only go into shelves: add a shelf with --shelf, then
place the device with --into.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (o.rack == "") == (o.into == "") {
				return fmt.Errorf("exactly one of --rack or --into is required")
			}
			payload, err := o.payload()
			if err != nil {
				return err
			}
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			var id string
			if o.rack != "" {
				id, err = addToRack(s, o, payload)
			} else {
				id, err = addToShelf(s, o, payload)
			}
			if err != nil {
				return err
			}
			if err := saveSession(args[0], s); err != nil {
				return err
			}

			s.View(func(p *model.Project) {
				el := p.Element(id)
				printSuccess(cmd.OutOrStdout(), "Placed %s", StyleValue.Render(el.Name))
				printDetail(cmd.OutOrStdout(), "%s", describePlacement(p, el))
			})
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.rack, "rack", "", "target rack name or ID")
	f.StringVar(&o.into, "into", "", "target shelf name or ID")
	f.StringVar(&o.name, "name", "", "element name")
	f.IntVar(&o.size, "size", 1, "device size in units (1-4)")
	f.StringVar(&o.color, "color", "", "fill colour (#RRGGBB)")
	f.StringVar(&o.fontColor, "font-color", "", "text colour (#RRGGBB)")
	f.StringVar(&o.shelf, "shelf", "", "add a shelf of this type instead of a device")
	f.IntVar(&o.unit, "unit", 0, "preferred top unit label (1-42)")
	f.IntVar(&o.slot, "slot", 0, "shelf slot, 1-based (default: next free)")
	return cmd
}

func addToRack(s *designer.Session, o addOptions, payload designer.Payload) (string, error) {
	if !payload.IsShelf() && engine.RequiresShelf(payload.DisplayUnits) {
		return "", engine.Reject(engine.ErrRequiresShelf, "Place this device into a matching shelf slot.")
	}
	var rackID string
	var err error
	s.View(func(p *model.Project) {
		var r *model.Rack
		if r, err = findRack(p, o.rack); err == nil {
			rackID = r.ID
		}
	})
	if err != nil {
		return "", err
	}
	unit := -1
	if o.unit != 0 {
		if o.unit < 1 || o.unit > model.RackUnits {
			return "", fmt.Errorf("--unit must be between 1 and %d", model.RackUnits)
		}
		unit = model.RackUnits - o.unit
	}
	return s.AddAt(rackID, payload, unit)
}

func addToShelf(s *designer.Session, o addOptions, payload designer.Payload) (string, error) {
	var (
		shelfID string
		slot    int
		err     error
	)
	s.View(func(p *model.Project) {
		var sh *model.Element
		if sh, err = findShelf(p, o.into); err != nil {
			return
		}
		shelfID = sh.ID
		switch {
		case engine.IsBlinder(sh):
		case o.slot > 0:
			slot = o.slot - 1
		default:
			next, ok := engine.NextFreeSlot(sh)
			if !ok {
				err = engine.Reject(engine.ErrNoShelfSlot, "No free shelf slot available.")
				return
			}
			slot = next
		}
	})
	if err != nil {
		return "", err
	}
	s.SelectPayload("cli", payload)
	return s.ClickShelfSlot(shelfID, slot)
}

func describePlacement(p *model.Project, el *model.Element) string {
	switch el.Placement.Kind {
	case model.InRack:
		r := p.Rack(el.Placement.RackID)
		top := model.UnitLabel(el.Placement.StartUnit)
		return fmt.Sprintf("%s, U%d-U%d", r.Name, top, top-el.Units()+1)
	case model.InShelfSlot:
		return fmt.Sprintf("%s, slot %d", p.Element(el.Placement.ShelfID).Name, el.Placement.SlotIndex+1)
	case model.InShelfPacked:
		return fmt.Sprintf("%s, offset %.0f", p.Element(el.Placement.ShelfID).Name, el.Placement.Offset)
	}
	return el.Placement.Kind.String()
}
