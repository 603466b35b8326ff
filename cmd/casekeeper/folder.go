// Folder commands inspect the mirrored folder tree.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var folderType string

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Inspect the mirrored folder tree of a case",
}

var folderPathCmd = &cobra.Command{
	Use:   "path <case-id> [stage]",
	Short: "Print the computed folder path of a case or stage",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		var (
			path   string
			exists bool
			err    error
		)
		if len(args) == 2 {
			path, exists, err = eng.coord.StageFolderPath(args[0], folderType, args[1])
		} else {
			path, exists, err = eng.coord.FolderPath(args[0], folderType)
		}
		if err != nil {
			fail(exitUserError, "folder path: %s", err)
		}

		if flagJSON {
			printJSON(map[string]any{"path": path, "exists": exists})
			return nil
		}
		fmt.Println(path)
		if !exists {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: folder does not exist on disk")
		}
		return nil
	},
}

var folderInfoCmd = &cobra.Command{
	Use:   "info <case-id>",
	Short: "Print a diagnostic snapshot of a case folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		info, err := eng.coord.FolderInfo(args[0], folderType)
		if err != nil {
			fail(exitUserError, "folder info: %s", err)
		}

		if flagJSON {
			printJSON(info)
			return nil
		}
		fmt.Printf("path: %s\n", info.Path)
		fmt.Printf("exists: %t\n", info.Exists)
		if info.Exists {
			fmt.Printf("files: %d\n", info.FileCount)
			fmt.Printf("size: %d bytes\n", info.TotalSize)
			fmt.Printf("valid: %t\n", info.Valid)
			if info.Problem != "" {
				fmt.Printf("problem: %s\n", info.Problem)
			}
		}
		return nil
	},
}

func init() {
	folderCmd.PersistentFlags().StringVar(&folderType, "type", "", "case type")
	folderCmd.AddCommand(folderPathCmd)
	folderCmd.AddCommand(folderInfoCmd)
}
