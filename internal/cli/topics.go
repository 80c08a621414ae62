package cli

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/stowng/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

func initTopics(rootCmd *cobra.Command) error {
	sub, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		return err
	}
	_, err = topics.InitializeWithOptions(rootCmd, sub, topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	return err
}
