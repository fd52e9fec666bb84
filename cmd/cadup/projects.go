package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List, create and inspect projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects you own or are assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			projects, err := s.client().ListProjects(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			if len(projects) == 0 {
				fmt.Println(gray("no projects"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Status, p.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			p, err := s.client().CreateProject(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			fmt.Printf("%s %s %s\n", green("created"), p.ID, gray(p.Name))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "files <project-id>",
		Short: "List files uploaded to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			files, err := s.client().ListFiles(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSIZE\tUPLOADED\tEXPIRES")
			for _, f := range files {
				expires := "-"
				if f.ExpiresAt != nil {
					expires = f.ExpiresAt.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					f.ID, f.Filename, humanBytes(f.SizeBytes), f.CreatedAt.Format("2006-01-02 15:04"), expires)
			}
			return w.Flush()
		},
	})

	return cmd
}
