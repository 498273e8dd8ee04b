package cmd

import (
	"fmt"
	"os"

	"azup/cmd/ui/spinner"
	"azup/pkg/azure"
	"azup/pkg/config"

	tea "github.com/charmbracelet/bubbletea"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// runWithSpinner shows a spinner while fn runs.
func runWithSpinner(message string, fn func() error) error {
	program := tea.NewProgram(spinner.New(message))

	go func() {
		if _, err := program.Run(); err != nil {
			// Suppress the "program was killed" error since quitting the
			// spinner is the normal path
			if err.Error() != "program was killed" {
				fmt.Fprintf(os.Stderr, "Error running spinner: %v\n", err)
			}
		}
	}()

	err := fn()
	program.Quit()
	return err
}

// newClient resolves the signed-in account and builds a management client
// for its default subscription.
func newClient() (*azure.Client, config.Account, error) {
	account, err := config.LoadAccount()
	if err != nil {
		return nil, config.Account{}, err
	}
	client, err := azure.NewClient(account.SubscriptionID)
	if err != nil {
		return nil, config.Account{}, err
	}
	return client, account, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
