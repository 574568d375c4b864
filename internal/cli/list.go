package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const descriptionWidth = 50

var (
	listJSON   bool
	listSkills bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listSkills, "skills", false, "List skills instead of extensions")
	rootCmd.AddCommand(listCmd)
}

// extensionInfo is the --json shape of one list row.
type extensionInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	RuleRange   []int    `json:"rule_number_range,omitempty"`
	Skills      int      `json:"skills"`
	Hooks       int      `json:"hooks"`
	Tags        []string `json:"tags"`
	Directory   string   `json:"directory"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered extensions, enabled or not",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := filepath.Join(baseDir(), "extensions")

		reg, err := manifest.LoadRegistry(filepath.Join(root, manifest.RegistryFileName))
		if err != nil {
			return err
		}
		// No registry filter: disabled extensions are listed too.
		exts, err := discovery.Discover(root, nil)
		if err != nil {
			return err
		}

		if listSkills {
			return printSkills(out, exts)
		}

		infos := make([]extensionInfo, 0, len(exts))
		for _, ext := range exts {
			skills, err := discovery.SkillDirs(ext.Dir)
			if err != nil {
				return err
			}
			m := ext.Manifest
			infos = append(infos, extensionInfo{
				Name:        m.Name,
				Version:     m.Version,
				Description: m.Description,
				Enabled:     reg.IsEnabled(m),
				RuleRange:   m.RuleNumberRange,
				Skills:      len(skills),
				Hooks:       m.HookCount(),
				Tags:        m.Tags,
				Directory:   ext.Dir,
			})
		}

		if listJSON {
			return writeJSON(out, infos)
		}

		if len(infos) == 0 {
			fmt.Fprintln(out, warningStyle.Render("No extensions found."))
			return nil
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				info.Name,
				info.Version,
				yesNo(info.Enabled),
				ruleRange(info.RuleRange),
				strconv.Itoa(info.Skills),
				strconv.Itoa(info.Hooks),
				truncate(info.Description, descriptionWidth),
			})
		}
		fmt.Fprintln(out, titleStyle.Render("Extensions"))
		fmt.Fprintln(out, newTable([]string{"Name", "Version", "Enabled", "Rules", "Skills", "Hooks", "Description"}, rows))
		return nil
	},
}

func printSkills(out io.Writer, exts []discovery.Extension) error {
	skills, err := discovery.ListSkills(exts)
	if err != nil {
		return err
	}
	if skills == nil {
		skills = []discovery.Skill{}
	}

	if listJSON {
		type skillInfo struct {
			Name        string `json:"name"`
			Extension   string `json:"extension"`
			Description string `json:"description"`
			Routed      bool   `json:"routed"`
		}
		infos := make([]skillInfo, len(skills))
		for i, s := range skills {
			infos[i] = skillInfo{Name: s.Name, Extension: s.Extension, Description: s.Description, Routed: s.Routed}
		}
		return writeJSON(out, infos)
	}

	if len(skills) == 0 {
		fmt.Fprintln(out, warningStyle.Render("No skills found."))
		return nil
	}

	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []string{s.Name, s.Extension, yesNo(s.Routed), truncate(s.Description, descriptionWidth)})
	}
	fmt.Fprintln(out, titleStyle.Render("Skills"))
	fmt.Fprintln(out, newTable([]string{"Skill", "Extension", "Routed", "Description"}, rows))
	return nil
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			if col == 0 {
				return highlightStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func ruleRange(r []int) string {
	if len(r) != 2 {
		return ""
	}
	return fmt.Sprintf("[%d-%d]", r[0], r[1])
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
