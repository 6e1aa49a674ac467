package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/synapsai-cloud/synapsai-go/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long:  `Manage SynapsAI API keys. Keys are stored encrypted on disk.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [name]",
		Short: "Store an API key",
		Long:  `Store an API key under name (default from config). The key is prompted without echo.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runKeysSet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored key names",
		Long:  `List stored key names. Key values are never shown.`,
		RunE:  a.runKeysList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysDelete,
	})

	return cmd
}

func (a *App) runKeysSet(cmd *cobra.Command, args []string) error {
	name := a.cfg.KeyName()
	if len(args) == 1 {
		name = args[0]
	}

	fmt.Fprintf(a.stdout, "Enter API key for %s: ", name)
	apiKey, err := a.readSecret()
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("read key: %w", err))
	}
	if apiKey == "" {
		return a.fail(ExitValidation, errors.New("API key cannot be empty"))
	}

	ks, err := a.newKeystore()
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("open keystore: %w", err))
	}
	if err := ks.Set(name, apiKey); err != nil {
		return a.fail(ExitValidation, fmt.Errorf("store key: %w", err))
	}

	fmt.Fprintf(a.stdout, "API key %s stored.\n", name)
	return nil
}

// readSecret reads without echo from a terminal, or one line otherwise.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("open keystore: %w", err))
	}

	names, err := ks.List()
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("list keys: %w", err))
	}

	if a.jsonOutput {
		if names == nil {
			names = []string{}
		}
		return a.writeJSON(map[string]any{"keys": names})
	}
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No API keys stored.")
		return nil
	}
	fmt.Fprintln(a.stdout, "Stored keys:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %s\n", name)
	}
	return nil
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := a.newKeystore()
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("open keystore: %w", err))
	}

	if err := ks.Delete(name); err != nil {
		var nf *keystore.ErrKeyNotFound
		if errors.As(err, &nf) {
			return a.fail(ExitValidation, fmt.Errorf("no key stored for %s", name))
		}
		return a.fail(ExitValidation, fmt.Errorf("delete key: %w", err))
	}

	fmt.Fprintf(a.stdout, "API key %s deleted.\n", name)
	return nil
}
