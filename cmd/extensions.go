package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chromeshell/cli/pkg/extensions"
	"github.com/chromeshell/cli/pkg/resources"
	"github.com/chromeshell/cli/pkg/table"
	"github.com/chromeshell/cli/pkg/util"
)

var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Inspect and pack browser extensions",
}

var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the extensions bundled with the shell",
	RunE:  runExtensionsList,
}

var extensionsInfoCmd = &cobra.Command{
	Use:   "info <name|path>",
	Short: "Show how an extension path resolves",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtensionsInfo,
}

var extensionsPackCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Zip an unpacked extension for distribution",
	Long: `Zip an unpacked extension directory, leaving out development files
(node_modules, .git, test files, logs).`,
	Args: cobra.ExactArgs(1),
	RunE: runExtensionsPack,
}

func init() {
	extensionsListCmd.Flags().StringP("output", "o", "", "Output format (json)")
	extensionsInfoCmd.Flags().StringP("output", "o", "", "Output format (json)")
	extensionsPackCmd.Flags().StringP("output", "o", "", "Output zip path (default <dir>.zip)")
	extensionsCmd.AddCommand(extensionsListCmd, extensionsInfoCmd, extensionsPackCmd)
	rootCmd.AddCommand(extensionsCmd)
}

type extensionSummary struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Version   string `json:"version"`
	Popup     string `json:"popup,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Resources string `json:"resources"`
}

func bundledSummary(name string) extensionSummary {
	s := extensionSummary{Name: name, Resources: extensions.InternalResourcePath(name)}
	data, err := resources.Load(extensions.InternalResourcePath(extensions.JoinPath(name, "manifest.json")))
	if err != nil {
		return s
	}
	manifest, err := extensions.ParseManifest(data)
	if err != nil {
		return s
	}
	s.Title = manifest.Name()
	s.Version = manifest.Version()
	s.Popup = manifest.DefaultPopup()
	s.Icon = manifest.DefaultIcon()
	return s
}

func runExtensionsList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	names, err := resources.ExtensionNames()
	if err != nil {
		return err
	}

	summaries := make([]extensionSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, bundledSummary(name))
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	rows := pterm.TableData{{"Name", "Title", "Version", "Popup", "Icon"}}
	for _, s := range summaries {
		rows = append(rows, []string{s.Name, util.OrDash(s.Title), util.OrDash(s.Version), util.OrDash(s.Popup), util.OrDash(s.Icon)})
	}
	table.PrintTableNoPad(rows, true)
	return nil
}

type extensionInfo struct {
	Path         string `json:"path"`
	Kind         string `json:"kind"`
	ResourcePath string `json:"resource_path"`
	ID           string `json:"id,omitempty"`
	Origin       string `json:"origin,omitempty"`
	Popup        string `json:"popup,omitempty"`
	Icon         string `json:"icon,omitempty"`
}

// describeExtension resolves an extension path the way a load would. Bundled
// extensions get their id from the engine at load time (it depends on the
// per-run staging directory), so none is reported for them here; external
// directories load in place, making their id stable enough to show.
func describeExtension(extPath string) (extensionInfo, error) {
	resourcePath, internal := extensions.ResourcePath(extPath)
	info := extensionInfo{Path: extPath, ResourcePath: resourcePath}

	var manifestData []byte
	if internal {
		info.Kind = "internal"
		manifestData, _ = resources.Load(extensions.InternalResourcePath(extensions.JoinPath(extPath, "manifest.json")))
	} else {
		info.Kind = "external"
		abs, err := filepath.Abs(extPath)
		if err != nil {
			return info, err
		}
		info.ID = extensions.ComputeID(abs)
		info.Origin = extensions.Origin(info.ID)
		manifestData, _ = os.ReadFile(filepath.Join(extPath, "manifest.json"))
	}

	manifest, err := extensions.ParseManifest(manifestData)
	if err != nil {
		pterm.Warning.Printfln("No readable manifest for %s", extPath)
	}
	ext := &extensions.Extension{ID: info.ID, Path: extPath, Manifest: manifest}
	if info.ID != "" {
		info.Popup = ext.PopupURL()
	} else {
		info.Popup = manifest.DefaultPopup()
	}
	info.Icon, _ = ext.IconPath()
	return info, nil
}

func runExtensionsInfo(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	info, err := describeExtension(args[0])
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	rows := pterm.TableData{
		{"Path", info.Path},
		{"Kind", info.Kind},
		{"Resource path", info.ResourcePath},
		{"ID", util.OrDash(info.ID)},
		{"Origin", util.OrDash(info.Origin)},
		{"Popup", util.OrDash(info.Popup)},
		{"Icon", util.OrDash(info.Icon)},
	}
	table.PrintTableNoPad(rows, false)
	return nil
}

func runExtensionsPack(cmd *cobra.Command, args []string) error {
	srcDir := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(filepath.Clean(srcDir), string(os.PathSeparator)) + ".zip"
	}

	stats, err := extensions.Pack(srcDir, output)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", srcDir, err)
	}

	pterm.Success.Printfln("Packed %d files (%s) into %s",
		stats.FilesIncluded, util.FormatBytes(stats.BytesIncluded), output)
	return nil
}
