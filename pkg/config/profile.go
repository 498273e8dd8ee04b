package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"azup/pkg/util"
)

// Account identifies the signed-in principal and its default subscription,
// read from the az CLI profile.
type Account struct {
	UserName       string `json:"user_name"`
	SubscriptionID string `json:"subscription_id"`
}

// LoadAccount reads ~/.azure/azureProfile.json and returns the account marked
// as default. AZURE_SUBSCRIPTION_ID overrides the subscription when set.
func LoadAccount() (Account, error) {
	configDir, err := azureConfigDir()
	if err != nil {
		return Account{}, err
	}

	profilePath := filepath.Join(configDir, "azureProfile.json")
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return Account{}, fmt.Errorf("no az profile at '%s' (run 'az login' first): %w", profilePath, err)
	}

	// The az CLI writes the profile with a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Account{}, fmt.Errorf("invalid az profile '%s': %w", profilePath, err)
	}

	for _, subscriptions := range util.FindKey(decoded, "subscriptions") {
		list, ok := subscriptions.([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			sub, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if isDefault, _ := sub["isDefault"].(bool); !isDefault {
				continue
			}

			var account Account
			account.SubscriptionID, _ = sub["id"].(string)
			for _, user := range util.FindKey(sub, "user") {
				if m, ok := user.(map[string]any); ok {
					account.UserName, _ = m["name"].(string)
				}
			}
			if override := os.Getenv("AZURE_SUBSCRIPTION_ID"); override != "" {
				account.SubscriptionID = override
			}
			return account, nil
		}
	}

	return Account{}, fmt.Errorf("no default subscription in '%s'", profilePath)
}
