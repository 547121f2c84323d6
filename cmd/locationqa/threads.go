package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage stored conversation threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored threads, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openThreadStore()
		if err != nil {
			return err
		}
		defer store.Close()

		threads, err := store.List()
		if err != nil {
			return err
		}
		if len(threads) == 0 {
			fmt.Println("no threads")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODE\tUPDATED\tTITLE")
		for _, t := range threads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				t.ID, t.Mode, t.UpdatedAt.Format("2006-01-02 15:04"), t.Title)
		}
		return w.Flush()
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one thread's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openThreadStore()
		if err != nil {
			return err
		}
		defer store.Close()

		t, err := store.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n\n", t.Title, t.Mode)
		for _, m := range t.State.Messages {
			switch m.Role {
			case conv.RoleUser:
				fmt.Printf("你: %s\n", m.Content)
			case conv.RoleAssistant:
				if strings.TrimSpace(m.Content) != "" {
					fmt.Printf("助手: %s\n", m.Content)
				}
			}
		}
		return nil
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openThreadStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Load(args[0]); err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var threadsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored threads",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openThreadStore()
		if err != nil {
			return err
		}
		defer store.Close()

		threads, err := store.List()
		if err != nil {
			return err
		}
		for _, t := range threads {
			if err := store.Delete(t.ID); err != nil {
				return err
			}
		}
		fmt.Printf("deleted %d threads\n", len(threads))
		return nil
	},
}

func init() {
	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsShowCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
	threadsCmd.AddCommand(threadsClearCmd)
}
