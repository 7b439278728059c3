package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/tracker"
)

func startCmd() *cobra.Command {
	var task string

	cmd := &cobra.Command{
		Use:   "start <project>",
		Short: "Start tracking time against a project",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := tracker.NewService(repo)
			timer, err := svc.Start(cmd.Context(), args[0], task)
			if err != nil {
				fail(err)
			}
			fmt.Println(out.TimerStarted(timer))
		},
	}

	cmd.Flags().StringVarP(&task, "task", "t", "", "What you are working on")
	return cmd
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer and record the entry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc := tracker.NewService(repo)
			entry, err := svc.Stop(cmd.Context())
			if err != nil {
				fail(err)
			}
			fmt.Println(out.TimerStopped(entry))
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc := tracker.NewService(repo)
			status, err := svc.Status(cmd.Context())
			if err != nil {
				fail(err)
			}
			fmt.Println(status)
		},
	}
}

func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <tag>",
		Short: "Attach a tag to the running timer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := tracker.NewService(repo)
			timer, err := svc.AddTag(cmd.Context(), args[0])
			if err != nil {
				fail(err)
			}
			fmt.Printf("Tagged %s: %v\n", timer.ProjectName, timer.Tags)
		},
	}
}
