package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the interticle client.
// It registers the id, author and article command groups.
func NewRoot(ep Endpoints) *cobra.Command {
	root := &cobra.Command{
		Use:   "interticle",
		Short: "interticle client commands",
	}
	AddCommands(root, ep)
	return root
}

// AddCommands registers the client command groups on parent.
func AddCommands(parent *cobra.Command, ep Endpoints) {
	parent.AddCommand(NewIDCommand(ep))
	parent.AddCommand(NewAuthorCommand(ep))
	parent.AddCommand(NewArticleCommand(ep))
}
