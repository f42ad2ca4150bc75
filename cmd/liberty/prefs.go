package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or edit stored preferences",
	Long: `Preferences are loaded when the app starts and saved when it exits.

Examples:
  liberty prefs
  liberty prefs set theme dark
  liberty prefs unset theme`,
	Args: cobra.NoArgs,
	Run:  runPrefs,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	Run:   runPrefsSet,
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	Run:   runPrefsUnset,
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsUnsetCmd)
}

func runPrefs(cmd *cobra.Command, args []string) {
	store := mustOpenStore(mustLoadConfig())
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading preferences: %v\n", err)
		os.Exit(1)
	}

	if len(prefs) == 0 {
		fmt.Println("No preferences stored.")
		return
	}

	keys := make([]string, 0, len(prefs))
	maxKeyLen := 3 // "Key" header
	for k := range prefs {
		keys = append(keys, k)
		if len(k) > maxKeyLen {
			maxKeyLen = len(k)
		}
	}
	sort.Strings(keys)

	fmt.Printf("  %-*s  %s\n", maxKeyLen, "Key", "Value")
	fmt.Printf("  %-*s  %s\n", maxKeyLen, "---", "-----")
	for _, k := range keys {
		fmt.Printf("  %-*s  %s\n", maxKeyLen, k, prefs[k])
	}
}

func runPrefsSet(cmd *cobra.Command, args []string) {
	store := mustOpenStore(mustLoadConfig())
	defer store.Close()

	if err := store.SavePreferences(map[string]string{args[0]: args[1]}); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving preference: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
}

func runPrefsUnset(cmd *cobra.Command, args []string) {
	store := mustOpenStore(mustLoadConfig())
	defer store.Close()

	if err := store.DeletePreference(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing preference: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %s\n", args[0])
}
