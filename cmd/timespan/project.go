package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/discovery"
	"github.com/wenzel/timespan/internal/project"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"proj"},
		Short:   "Manage the project registry",
		Long: `Create, list, update, and delete projects.

'timespan project discover <path>' scans a clients directory and
registers each subdirectory as a "[CLIENT]" project. 'timespan project
clients' lists only discovered projects.`,
	}

	cmd.AddCommand(
		projectCreateCmd(),
		projectListCmd(),
		projectUpdateCmd(),
		projectDeleteCmd(),
		projectDiscoverCmd(),
		projectClientsCmd(),
	)
	return cmd
}

func projectCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new project",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := project.NewService(repo)
			p, err := svc.Create(cmd.Context(), args[0], description)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Created project %s\n", p.Name)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc := project.NewService(repo)
			projects, err := svc.List(cmd.Context())
			if err != nil {
				fail(err)
			}
			fmt.Print(out.Projects(projects))
		},
	}
}

func projectUpdateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a project's description",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := project.NewService(repo)
			p, err := svc.UpdateDescription(cmd.Context(), args[0], description)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Updated project %s\n", p.Name)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.MarkFlagRequired("description")
	return cmd
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project with no recorded time",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := project.NewService(repo)
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				fail(err)
			}
			fmt.Printf("Deleted project %s\n", args[0])
		},
	}
}

func projectDiscoverCmd() *cobra.Command {
	var (
		dryRun bool
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "discover [path]",
		Short: "Register projects from a clients directory",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			basePath := cfg.ClientsDir
			if len(args) > 0 {
				basePath = args[0]
			}
			if basePath == "" {
				fmt.Fprintln(os.Stderr, "Error: no path given and TIMESPAN_CLIENTS_DIR is unset")
				os.Exit(1)
			}

			opts := discovery.DefaultOptions(basePath)
			opts.DryRun = dryRun
			if cmd.Flags().Changed("prefix") {
				opts.ProjectPrefix = prefix
			}

			svc := discovery.NewService(repo)
			result, err := svc.Discover(cmd.Context(), opts)
			if err != nil {
				fail(err)
			}
			fmt.Print(out.Discovery(result, dryRun))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scan without creating projects")
	cmd.Flags().StringVar(&prefix, "prefix", discovery.DefaultPrefix, "Project name prefix")
	return cmd
}

func projectClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List discovered client projects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc := discovery.NewService(repo)
			clients, err := svc.ListClientProjects(cmd.Context())
			if err != nil {
				fail(err)
			}
			fmt.Print(out.Projects(clients))
		},
	}
}
