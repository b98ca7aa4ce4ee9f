package client

import (
	"github.com/rzbill/interticle/internal/cmd/client/transports"
	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/spf13/cobra"
)

// NewAuthorCommand constructs the `author` command group.
func NewAuthorCommand(ep Endpoints) *cobra.Command {
	authorCmd := &cobra.Command{Use: "author", Short: "Author operations"}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			origin, _ := cmd.Flags().GetString("origin-url")
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := ep.articlesTransport().CreateAuthor(ctx, name, origin)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	createCmd.Flags().String("name", "", "Author name")
	createCmd.Flags().String("origin-url", "", "Origin server URL for remote authors")
	_ = createCmd.MarkFlagRequired("name")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get an author by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := snowflake.Parse(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := ep.articlesTransport().GetAuthor(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	authorCmd.AddCommand(createCmd, getCmd)
	return authorCmd
}

// NewArticleCommand constructs the `article` command group.
func NewArticleCommand(ep Endpoints) *cobra.Command {
	articleCmd := &cobra.Command{Use: "article", Short: "Article operations"}
	articleCmd.AddCommand(
		newArticlePublishCommand(ep),
		newArticleGetCommand(ep),
		newArticleListCommand(ep),
	)
	return articleCmd
}

func newArticlePublishCommand(ep Endpoints) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			title, _ := cmd.Flags().GetString("title")
			authorStr, _ := cmd.Flags().GetString("author")
			origin, _ := cmd.Flags().GetString("origin-url")
			authorID, err := snowflake.Parse(authorStr)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := ep.articlesTransport().PublishArticle(ctx, title, authorID, origin)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("title", "", "Article title")
	cmd.Flags().String("author", "", "Author id (decimal)")
	cmd.Flags().String("origin-url", "", "Origin server URL")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newArticleGetCommand(ep Endpoints) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an article by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := snowflake.Parse(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := ep.articlesTransport().GetArticle(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newArticleListCommand(ep Endpoints) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")
			afterStr, _ := cmd.Flags().GetString("after")
			reverse, _ := cmd.Flags().GetBool("reverse")
			req := transports.ListRequest{Filter: filter, Limit: limit, Reverse: reverse}
			if afterStr != "" {
				after, err := snowflake.Parse(afterStr)
				if err != nil {
					return err
				}
				req.After = after
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := ep.articlesTransport().ListArticles(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("filter", "", `CEL filter, e.g. title.startsWith("Go") && ts_ms > 1700000000000`)
	cmd.Flags().Int("limit", 0, "Page size (server caps it)")
	cmd.Flags().String("after", "", "Cursor: id to continue after (from the previous page's next)")
	cmd.Flags().Bool("reverse", false, "Newest first")
	return cmd
}
