package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/bridge"
	"github.com/inventario-agricola/inventario/internal/inventory"
)

var resourceNames = []struct {
	resource inventory.Resource
	name     string
}{
	{inventory.ResourceSeeds, "seeds"},
	{inventory.ResourceSuppliers, "suppliers"},
}

// resourceCommands exposes every form as "<resource> <operation>" with one
// flag per field.
func resourceCommands(st *state) []*cli.Command {
	forms := bridge.Catalog()
	commands := make([]*cli.Command, 0, len(resourceNames))
	for _, rn := range resourceNames {
		cmd := &cli.Command{
			Name:         rn.name,
			Aliases:      []string{string(rn.resource)},
			Usage:        bridge.GroupTitle(rn.resource),
			OnUsageError: usageError,
		}
		for _, form := range forms {
			if form.Resource == rn.resource {
				cmd.Subcommands = append(cmd.Subcommands, formCommand(st, form))
			}
		}
		commands = append(commands, cmd)
	}
	return commands
}

func formCommand(st *state, form bridge.Form) *cli.Command {
	flags := make([]cli.Flag, 0, len(form.Fields)+1)
	for _, field := range form.Fields {
		if field.Kind == bridge.FieldCheckbox {
			flags = append(flags, &cli.BoolFlag{Name: field.Name, Usage: field.Label})
			continue
		}
		usage := field.Label
		if field.Kind == bridge.FieldDateTime {
			usage += " (AAAA-MM-DDTHH:MM)"
		}
		flags = append(flags, &cli.StringFlag{Name: field.Name, Usage: usage})
	}
	flags = append(flags, &cli.BoolFlag{Name: "compact", Usage: "imprimir JSON en una sola línea"})

	return &cli.Command{
		Name:         form.Operation(),
		Usage:        form.Title,
		Flags:        flags,
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			return st.runForm(c, form)
		},
	}
}

func (st *state) runForm(c *cli.Context, form bridge.Form) error {
	forms := bridge.NewFromDirectory(
		backend.NewDirectory(st.cfg.Endpoints(), backend.WithTimeout(st.cfg.BackendTimeout)),
		st.bridgeConfig(),
		bridge.WithLogger(st.logger),
	)

	out, err := forms.Run(c.Context, form.ID, flagValues(c, form))
	if err != nil {
		if errors.Is(err, bridge.ErrUnknownForm) {
			return cli.Exit(fmt.Sprintf("inventario: %s is disabled by CONSOLE_RESOURCES", form.Resource), ExitUsage)
		}
		return cli.Exit(fmt.Sprintf("inventario: %v", err), ExitError)
	}

	rendered := out.Render()
	if c.Bool("compact") {
		data, err := out.MarshalJSON()
		if err != nil {
			return cli.Exit(fmt.Sprintf("inventario: encode output: %v", err), ExitError)
		}
		rendered = string(data)
	}
	_, _ = fmt.Fprintln(st.stdout, rendered)
	if out.Toast != nil {
		_, _ = fmt.Fprintf(st.stderr, "%s: %s\n", out.Toast.Kind, out.Toast.Message)
	}

	if out.Failed() || out.Status < 200 || out.Status >= 300 {
		return cli.Exit("", ExitError)
	}
	return nil
}

func (st *state) bridgeConfig() bridge.Config {
	resources, _ := st.cfg.Resources()
	return bridge.Config{
		Resources: resources,
		Toasts:    st.cfg.ConsoleToast,
		Language:  st.cfg.ConsoleLang,
	}
}

// flagValues maps the flags that were given to form values. Unset flags
// behave like empty inputs.
func flagValues(c *cli.Context, form bridge.Form) bridge.Values {
	values := make(bridge.Values, len(form.Fields))
	for _, field := range form.Fields {
		if !c.IsSet(field.Name) {
			continue
		}
		if field.Kind == bridge.FieldCheckbox {
			if c.Bool(field.Name) {
				values[field.Name] = "true"
			}
			continue
		}
		values[field.Name] = c.String(field.Name)
	}
	return values
}
