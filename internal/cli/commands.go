package cli

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/Project-Sylos/Courier/internal/gofile"
	"github.com/Project-Sylos/Courier/internal/tree"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newGetServerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "getServer",
		Aliases: []string{"server"},
		Short:   "Print the server to upload to",
		Args:    checkArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := a.client.GetServer(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(map[string]string{"server": server}, func() error {
				_, err := fmt.Fprintln(a.out, server)
				return err
			})
		},
	}
}

func newUploadFileCommand(a *app) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:     "uploadFile <path>",
		Aliases: []string{"upload"},
		Short:   "Upload a file",
		Long: `Upload a file, optionally into a folder of the account.

Without a token the file goes to a new guest account whose token is printed
with the result. Uploading into a folder requires a token.`,
		Args: checkArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.UploadFile(cmd.Context(), args[0], gofile.UploadOptions{FolderID: folderID})
			if err != nil {
				return err
			}
			a.log.Info("uploaded", zap.String("file", result.FileName), zap.String("id", result.FileID))
			return a.print(result, func() error {
				fmt.Fprintf(a.out, "Uploaded %s\n", result.FileName)
				fmt.Fprintf(a.out, "Download page: %s\n", result.DownloadPage)
				if result.GuestToken != "" {
					fmt.Fprintf(a.out, "Guest token: %s\n", result.GuestToken)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&folderID, "folder-id", "", "Destination folder id")
	return cmd
}

func newGetContentCommand(a *app) *cobra.Command {
	var render tree.RenderOptions
	cmd := &cobra.Command{
		Use:     "getContent <id>",
		Aliases: []string{"content"},
		Short:   "Show a file or folder with its direct children",
		Args:    checkArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.client.GetContent(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			return a.print(content, func() error {
				fmt.Fprintf(a.out, "%s  %s  %s\n", content.Name, content.Type, content.ID)
				if content.Code != "" {
					fmt.Fprintf(a.out, "Code: %s\n", content.Code)
				}
				if !content.IsFolder() {
					fmt.Fprintf(a.out, "Size: %s\n", humanize.Bytes(uint64(content.Size)))
					return nil
				}
				return tree.RenderShallow(a.out, content, render)
			})
		},
	}
	addRenderFlags(cmd.Flags(), &render)
	return cmd
}

func newGetContentsCommand(a *app) *cobra.Command {
	var (
		render  tree.RenderOptions
		shallow bool
	)
	cmd := &cobra.Command{
		Use:     "getContents <id>",
		Aliases: []string{"tree"},
		Short:   "List a folder recursively",
		Long: `List a folder and all of its sub-folders, fetching each sub-folder in turn.

Children are printed depth first, sorted by name, indented two spaces per
level. --shallow prints only the direct children.`,
		Args: checkArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if render.MaxDepth < 0 {
				return usagef("--depth must be >= 0, got %d", render.MaxDepth)
			}
			if shallow {
				content, err := a.client.GetContent(cmd.Context(), args[0], "")
				if err != nil {
					return err
				}
				return a.print(content, func() error {
					return tree.RenderShallow(a.out, content, render)
				})
			}

			root, err := tree.Fetch(cmd.Context(), a.client, args[0], "", tree.FetchOptions{MaxDepth: render.MaxDepth})
			if err != nil {
				return err
			}
			return a.print(root, func() error {
				if err := tree.Render(a.out, root, render); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.out, "\n%s\n", tree.Count(root))
				return err
			})
		},
	}
	flags := cmd.Flags()
	addRenderFlags(flags, &render)
	flags.IntVar(&render.MaxDepth, "depth", 0, "Maximum depth to list, 0 for unlimited")
	flags.BoolVar(&shallow, "shallow", false, "Only list the direct children")
	return cmd
}

// addRenderFlags adds the listing flags shared by getContent and getContents
func addRenderFlags(flags *pflag.FlagSet, opts *tree.RenderOptions) {
	flags.BoolVar(&opts.ShowIDs, "ids", false, "Show content ids")
	flags.BoolVar(&opts.ShowSize, "size", false, "Show file sizes")
	flags.BoolVar(&opts.FullPath, "full-path", false, "Show full paths instead of names")
	flags.BoolVar(&opts.NoIndent, "noindent", false, "Do not indent by depth")
}

func newCreateFolderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "createFolder <parentId> <name>",
		Aliases: []string{"mkdir"},
		Short:   "Create a folder",
		Args:    checkArgs(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.client.CreateFolder(cmd.Context(), args[0], args[1], "")
			if err != nil {
				return err
			}
			return a.print(folder, func() error {
				_, err := fmt.Fprintf(a.out, "Created folder %s (%s)\n", folder.Name, folder.ID)
				return err
			})
		},
	}
}

func newSetFolderOptionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "setFolderOption <folderId> <option> <value>",
		Aliases: []string{"set"},
		Short:   "Set an option of a folder",
		Long: `Set an option of a folder. Options and the values they accept:

  public       true or false
  password     text
  description  text
  expire       unix timestamp, RFC 3339 time or YYYY-MM-DD date
  tags         comma separated list`,
		Args: checkArgs(3, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderID, option := args[0], args[1]
			value, err := gofile.ParseFolderOptionValue(option, args[2])
			if err != nil {
				return err
			}
			if err := a.client.SetFolderOption(cmd.Context(), folderID, option, value, ""); err != nil {
				return err
			}
			return a.print(map[string]any{"folderId": folderID, "option": option, "value": value}, func() error {
				_, err := fmt.Fprintf(a.out, "Set %s on %s\n", option, folderID)
				return err
			})
		},
	}
}

func newCopyContentCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "copyContent <destFolderId> <id>...",
		Aliases: []string{"cp"},
		Short:   "Copy files and folders into a folder",
		Args:    checkArgs(2, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, ids := args[0], args[1:]
			if err := a.client.CopyContent(cmd.Context(), ids, dest, ""); err != nil {
				return err
			}
			return a.print(map[string]any{"folderIdDest": dest, "contentsId": ids}, func() error {
				_, err := fmt.Fprintf(a.out, "Copied %d item(s) to %s\n", len(ids), dest)
				return err
			})
		},
	}
}

func newDeleteContentCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "deleteContent <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete files and folders",
		Args:    checkArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm(fmt.Sprintf("Delete %d item(s) (%s)?", len(args), strings.Join(args, ", "))) {
				fmt.Fprintln(a.errOut, "Aborted")
				return nil
			}

			statuses, err := a.client.DeleteContent(cmd.Context(), args, "")
			if err != nil {
				return err
			}
			return a.print(statuses, func() error {
				if len(statuses) == 0 {
					_, err := fmt.Fprintf(a.out, "Deleted %d item(s)\n", len(args))
					return err
				}
				ids := make([]string, 0, len(statuses))
				for id := range statuses {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(a.out, "%s  %s\n", id, statuses[id])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newGetAccountDetailsCommand(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "getAccountDetails",
		Aliases: []string{"account"},
		Short:   "Show the account owning the token",
		Args:    checkArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := a.client.GetAccountDetails(cmd.Context(), "", all)
			if err != nil {
				return err
			}

			var payload any = account
			if all {
				payload = account.Extra
			}
			return a.print(payload, func() error {
				fmt.Fprintf(a.out, "Email:       %s\n", account.Email)
				fmt.Fprintf(a.out, "Tier:        %s\n", account.Tier)
				fmt.Fprintf(a.out, "Root folder: %s\n", account.RootFolder)
				fmt.Fprintf(a.out, "Files:       %s\n", humanize.Comma(account.FilesCount))
				fmt.Fprintf(a.out, "Total size:  %s\n", humanize.Bytes(uint64(account.TotalSize)))
				fmt.Fprintf(a.out, "Downloads:   %s\n", humanize.Comma(account.TotalDownloadCount))
				if !all {
					return nil
				}
				keys := make([]string, 0, len(account.Extra))
				for key := range account.Extra {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				fmt.Fprintln(a.out)
				for _, key := range keys {
					fmt.Fprintf(a.out, "%s: %s\n", key, account.Extra[key])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Request all details")
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  checkArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "courier %s\n", Version)
			return err
		},
	}
}

// confirm asks a yes/no question on errOut and reads the answer from in
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.errOut, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
