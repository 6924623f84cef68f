package cli

import (
	"fmt"
	"strings"

	"github.com/dshills/critic/internal/collect"
	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List language tags accepted by --language",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range collect.Languages() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", lang, strings.Join(collect.Extensions(lang), " "))
		}
	},
}
