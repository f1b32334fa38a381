package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(carry completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(carry completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func pageCompletions(cmd *cobra.Command, toComplete string) []string {
	e, err := loadEnv(modeCLI)
	if err != nil {
		return nil
	}
	pages, err := e.App.Pages(cmd.Context())
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(toComplete)) {
			out = append(out, strconv.Quote(p.Name))
		}
	}
	return out
}
