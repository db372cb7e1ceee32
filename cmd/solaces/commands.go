package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/config"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/oracle"
)

// --- devices ---

type devicesResult struct {
	Devices     []docs.Device `json:"devices"`
	Loading     bool          `json:"loading"`
	LoadError   string        `json:"loadError"`
	LastRefresh *time.Time    `json:"lastRefresh"`
}

type commandResult struct {
	Status  docs.LogStatus `json:"status"`
	Detail  string         `json:"detail"`
	Devices []docs.Device  `json:"devices"`
}

func fetchDevices(ctx context.Context, client *apiClient) (devicesResult, error) {
	var out devicesResult
	resp, err := client.get(ctx, "/devices")
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out)
	return out, err
}

func findDevice(devices []docs.Device, id string) (docs.Device, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return docs.Device{}, false
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List and toggle home devices",
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices with their current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		res, err := fetchDevices(cmd.Context(), client)
		if err != nil {
			return err
		}
		if res.Loading {
			printStep("Devices are still loading...")
		}
		if res.LoadError != "" {
			printWarning("Showing cached devices: %s", res.LoadError)
		}

		out := cmd.OutOrStdout()
		for _, d := range res.Devices {
			fmt.Fprintf(out, "%-10s %-8s %-22s %-14s %s\n",
				colorize(colorCyan, d.ID), d.Kind, d.Name, d.Location, deviceState(d))
		}
		return nil
	},
}

var devicesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a device on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/devices/"+url.PathEscape(args[0])+"/toggle", nil)
		if err != nil {
			return err
		}
		var res commandResult
		if err := decodeJSON(resp, &res); err != nil {
			return err
		}

		d, ok := findDevice(res.Devices, args[0])
		if !ok {
			d = docs.Device{ID: args[0], Name: args[0]}
		}
		if res.Status == docs.StatusError {
			return fmt.Errorf("%s: %s", d.Name, res.Detail)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", d.Name, deviceState(d))
		return nil
	},
}

func init() {
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesToggleCmd)
}

// --- scene ---

var sceneCmd = &cobra.Command{
	Use:   "scene [id]",
	Short: "Activate a scene, or list scenes when no id is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			resp, err := client.get(cmd.Context(), "/scenes")
			if err != nil {
				return err
			}
			var scenes []astra.Scene
			if err := decodeJSON(resp, &scenes); err != nil {
				return err
			}
			for _, s := range scenes {
				fmt.Fprintf(out, "%-10s %s\n", colorize(colorCyan, s.ID), s.Label)
			}
			return nil
		}

		resp, err := client.post(cmd.Context(), "/scenes/"+url.PathEscape(args[0])+"/activate", nil)
		if err != nil {
			return err
		}
		var res commandResult
		if err := decodeJSON(resp, &res); err != nil {
			return err
		}
		if res.Status == docs.StatusError {
			return fmt.Errorf("scene %s failed, see solaces log show", args[0])
		}
		printSuccess("Scene %s activated", args[0])
		for _, d := range res.Devices {
			fmt.Fprintf(out, "  %-22s %s\n", d.Name, deviceState(d))
		}
		return nil
	},
}

// --- log ---

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show or clear the command log",
}

var logShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recent commands, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/log")
		if err != nil {
			return err
		}
		var entries []docs.CommandLogEntry
		if err := decodeJSON(resp, &entries); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No commands logged.")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%-16s %-8s %s", ago(e.Timestamp), logStatusColor(e.Status), e.Label)
			if e.Detail != "" {
				line += colorize(colorDim, " ("+e.Detail+")")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the command log",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/log")
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Command log cleared")
		return nil
	},
}

func init() {
	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logClearCmd)
}

// --- systems ---

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "Manage the systems atlas",
}

var systemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List systems of the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/systems")
		if err != nil {
			return err
		}
		var state docs.SystemsState
		if err := decodeJSON(resp, &state); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range state.Profiles {
			marker := " "
			if p.ID == state.ActiveProfileID {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, colorize(colorBold, p.Name+" ("+p.ID+")"))
			if p.ID != state.ActiveProfileID {
				continue
			}
			for _, s := range p.Systems {
				line := fmt.Sprintf("    %-24s %-24s %s", colorize(colorCyan, s.ID), s.Name, systemStatusColor(s.Status))
				if s.Notes != "" {
					line += colorize(colorDim, "  "+s.Notes)
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

var systemsUseCmd = &cobra.Command{
	Use:   "use <profile-id>",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.put(cmd.Context(), "/systems/active", map[string]string{"profile_id": args[0]})
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Active profile is now %s", args[0])
		return nil
	},
}

var systemsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a system to every profile, or only the active one with --scope current",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/systems", map[string]string{
			"name":  strings.Join(args, " "),
			"scope": scope,
		})
		if err != nil {
			return err
		}
		var item docs.SystemItem
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}
		printSuccess("Added %s (%s)", item.Name, item.ID)
		return nil
	},
}

var systemsSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update the name, status or notes of a system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := map[string]string{}
		for _, name := range []string{"name", "status", "notes"} {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				patch[name] = v
			}
		}
		if len(patch) == 0 {
			return fmt.Errorf("one of --name, --status, or --notes is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.patch(cmd.Context(), "/systems/"+url.PathEscape(args[0]), patch)
		if err != nil {
			return err
		}
		var item docs.SystemItem
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.Name, systemStatusColor(item.Status))
		return nil
	},
}

var systemsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a system from every profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/systems/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Removed %s", args[0])
		return nil
	},
}

func init() {
	systemsAddCmd.Flags().String("scope", "all", "profiles to add to: all or current")
	systemsSetCmd.Flags().String("name", "", "new display name")
	systemsSetCmd.Flags().String("status", "", "ok, watch, issue, offline or unknown")
	systemsSetCmd.Flags().String("notes", "", "free-form notes")

	systemsCmd.AddCommand(systemsListCmd)
	systemsCmd.AddCommand(systemsUseCmd)
	systemsCmd.AddCommand(systemsAddCmd)
	systemsCmd.AddCommand(systemsSetCmd)
	systemsCmd.AddCommand(systemsRmCmd)
}

// --- oracle ---

type oracleDayResult struct {
	Date      string           `json:"date"`
	DateLabel string           `json:"dateLabel"`
	Previous  string           `json:"previous"`
	Next      string           `json:"next"`
	Entry     docs.OracleEntry `json:"entry"`
}

type oracleOverviewResult struct {
	Today     string           `json:"today"`
	DateLabel string           `json:"dateLabel"`
	Prompt    string           `json:"prompt"`
	Passage   string           `json:"passage"`
	Entry     docs.OracleEntry `json:"entry"`
}

func printOracleEntry(out io.Writer, e docs.OracleEntry) {
	for _, f := range []struct {
		label, value string
	}{
		{"Signal", e.Signal},
		{"Friction", e.Friction},
		{"Alignment", e.Alignment},
	} {
		v := f.value
		if strings.TrimSpace(v) == "" {
			v = colorize(colorDim, "(empty)")
		}
		fmt.Fprintf(out, "  %s %s\n", colorize(colorBold, f.label+":"), v)
	}
}

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Read or write the daily oracle journal",
}

var oracleShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show today's entry with its prompt, or the entry for YYYY-MM-DD",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			resp, err := client.get(cmd.Context(), "/oracle/"+url.PathEscape(args[0]))
			if err != nil {
				return err
			}
			var day oracleDayResult
			if err := decodeJSON(resp, &day); err != nil {
				return err
			}
			fmt.Fprintln(out, colorize(colorBold, day.DateLabel))
			printOracleEntry(out, day.Entry)
			fmt.Fprintln(out, colorize(colorDim, "← "+day.Previous+"   "+day.Next+" →"))
			return nil
		}

		resp, err := client.get(cmd.Context(), "/oracle")
		if err != nil {
			return err
		}
		var ov oracleOverviewResult
		if err := decodeJSON(resp, &ov); err != nil {
			return err
		}
		fmt.Fprintln(out, colorize(colorBold, ov.DateLabel))
		fmt.Fprintln(out, colorize(colorCyan, ov.Prompt))
		fmt.Fprintln(out, colorize(colorDim, ov.Passage))
		printOracleEntry(out, ov.Entry)
		return nil
	},
}

var oracleSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Write signal, friction or alignment for a day (default today)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = oracle.Today(time.Now())
		}
		field, err := docs.ParseOracleField(args[0])
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.patch(cmd.Context(), "/oracle/"+url.PathEscape(date), map[string]string{
			"field": string(field),
			"value": strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Saved %s for %s", field, date)
		return nil
	},
}

func init() {
	oracleSetCmd.Flags().String("date", "", "day to write, YYYY-MM-DD")
	oracleCmd.AddCommand(oracleShowCmd)
	oracleCmd.AddCommand(oracleSetCmd)
}

// --- memory ---

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Capture and review memory notes",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memory items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/memory")
		if err != nil {
			return err
		}
		var items []docs.MemoryItem
		if err := decodeJSON(resp, &items); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No memory items.")
			return nil
		}
		for _, m := range items {
			fmt.Fprintf(out, "%s  %s  [%s] %s\n",
				colorize(colorCyan, m.ID[:min(8, len(m.ID))]),
				colorize(colorDim, ago(m.CreatedAt)),
				m.Tag,
				colorize(colorBold, m.Title),
			)
			if m.Body != "" {
				fmt.Fprintf(out, "    %s\n", m.Body)
			}
		}
		return nil
	},
}

var memoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Capture a memory item",
	Long: `Capture a memory item.

Examples:
  solaces memory add --title "Reading" --body "Finish chapter 4" --tag insight
  solaces memory add --body "Call the plumber"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		body, _ := cmd.Flags().GetString("body")
		tag, _ := cmd.Flags().GetString("tag")

		if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
			return fmt.Errorf("one of --title or --body is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/memory", map[string]string{
			"title": title,
			"body":  body,
			"tag":   tag,
		})
		if err != nil {
			return err
		}
		var item docs.MemoryItem
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}
		printSuccess("Captured %s", item.ID)
		return nil
	},
}

var memoryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a memory item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/memory/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	memoryAddCmd.Flags().String("title", "", "item title")
	memoryAddCmd.Flags().String("body", "", "item body")
	memoryAddCmd.Flags().String("tag", "", "optional tag")
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryRmCmd)
}

// --- briefing ---

var briefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Show or edit the daily briefing",
}

var briefingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the briefing",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/briefing")
		if err != nil {
			return err
		}
		var b docs.Briefing
		if err := decodeJSON(resp, &b); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", colorize(colorBold, "Focus:"), b.Focus)
		fmt.Fprintf(out, "%s %s\n", colorize(colorBold, "State:"), b.StateWord)
		fmt.Fprintln(out, colorize(colorBold, "Priorities:"))
		for i, p := range b.Priorities {
			fmt.Fprintf(out, "  %d. %s\n", i+1, p)
		}
		fmt.Fprintf(out, "%s %s\n", colorize(colorBold, "Signals:"), b.Signals)
		fmt.Fprintf(out, "%s %s\n", colorize(colorBold, "Boundaries:"), b.Boundaries)
		return nil
	},
}

// parsePriority reads "N=text" where N counts from 1.
func parsePriority(s string) (int, string, error) {
	n, text, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", fmt.Errorf("priority %q: want N=text", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil || i < 1 {
		return 0, "", fmt.Errorf("priority %q: N must be a positive number", s)
	}
	return i - 1, text, nil
}

var briefingSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update briefing fields",
	Long: `Update briefing fields. Only the flags given are changed.

Examples:
  solaces briefing set --focus "Ship the release" --state-word steady
  solaces briefing set --priority 1="Write tests" --priority 3="Walk"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		update := map[string]any{}
		for flag, key := range map[string]string{
			"focus":      "focus",
			"state-word": "stateWord",
			"signals":    "signals",
			"boundaries": "boundaries",
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				update[key] = v
			}
		}
		priorities, _ := cmd.Flags().GetStringArray("priority")
		if len(priorities) > 0 {
			m := map[string]string{}
			for _, p := range priorities {
				i, text, err := parsePriority(p)
				if err != nil {
					return err
				}
				m[strconv.Itoa(i)] = text
			}
			update["priorities"] = m
		}
		if len(update) == 0 {
			return fmt.Errorf("nothing to update; see solaces briefing set --help")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.patch(cmd.Context(), "/briefing", update)
		if err != nil {
			return err
		}
		if err := expectOK(resp); err != nil {
			return err
		}
		printSuccess("Briefing updated")
		return nil
	},
}

func init() {
	briefingSetCmd.Flags().String("focus", "", "focus line")
	briefingSetCmd.Flags().String("state-word", "", "one word for today's state")
	briefingSetCmd.Flags().StringArray("priority", nil, "N=text, repeatable")
	briefingSetCmd.Flags().String("signals", "", "signals to watch")
	briefingSetCmd.Flags().String("boundaries", "", "boundaries to hold")
	briefingCmd.AddCommand(briefingShowCmd)
	briefingCmd.AddCommand(briefingSetCmd)
}

// --- synthesis ---

var synthesisCmd = &cobra.Command{
	Use:   "synthesis",
	Short: "Print the one-page synthesis of briefing, systems, oracle and memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/synthesis?format=text")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		out := cmd.OutOrStdout()
		switch {
		case resp.StatusCode == http.StatusNoContent:
			fmt.Fprintln(out, "Nothing to synthesize yet.")
			return nil
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			return apiError(resp.StatusCode, body)
		}
		_, err = io.Copy(out, resp.Body)
		return err
	},
}

// --- data ---

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage stored data",
}

var dataPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL stored data. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Deleting stored documents...")
		resp, err := client.delete(cmd.Context(), "/data")
		if err != nil {
			return err
		}
		var res struct {
			Deleted int `json:"deleted"`
		}
		if err := decodeJSON(resp, &res); err != nil {
			return err
		}

		printSuccess("All data purged (%d documents)", res.Deleted)
		return nil
	},
}

func init() {
	dataPurgeCmd.Flags().Bool("confirm", false, "confirm data purge")
	dataCmd.AddCommand(dataPurgeCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(out, "  %s = %s %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorDim, "("+k.Source+")"))
		}
		fmt.Fprintf(out, "Stored in %s\n", config.Location())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value. gateway.api_key goes to the keychain.\nValid keys: " +
		strings.Join(config.ValidKeys(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if config.IsSecret(key) {
			if err := config.SetSecret(config.NewKeychain(), key, value); err != nil {
				return err
			}
			printSuccess("Stored %s in the keychain", key)
			return nil
		}

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored value so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
