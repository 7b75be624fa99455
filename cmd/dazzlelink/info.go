package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

var infoCmd = &cobra.Command{
	Use:   "info <record>",
	Short: "Inspect a .dazzlelink record",
	Long:  `Display the contents of a record file in a readable form.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	rec, err := record.Load(args[0])
	if err != nil {
		return err
	}

	if getJSON() {
		return printJSON(rec)
	}

	fmt.Println("\nDazzleLink Record")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Schema:        v%d (written by %s)\n", rec.SchemaVersion, rec.CreatedBy)
	if created := times.AsTime(&rec.CreationTimestamp); !created.IsZero() {
		fmt.Printf("Created:       %s (%s)\n", created.Format(time.RFC3339), humanize.Time(created))
	}

	fmt.Println("\nLink")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Original path: %s\n", rec.Link.OriginalPath)
	fmt.Printf("Target:        %s\n", rec.Link.TargetPath)
	fmt.Printf("Type:          %s\n", rec.Link.Type)
	fmt.Printf("Relative:      %t\n", rec.Link.RelativePath)
	if mod := rec.Link.Timestamps.ModifiedISO; mod != "" {
		fmt.Printf("Modified:      %s\n", mod)
	}

	fmt.Println("\nTarget")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Exists:        %t\n", rec.Target.Exists)
	fmt.Printf("Kind:          %s\n", rec.Target.Kind)
	if rec.Target.Size != nil {
		fmt.Printf("Size:          %s\n", humanize.IBytes(uint64(*rec.Target.Size)))
	}
	if rec.Target.ItemCount != nil {
		fmt.Printf("Items:         %d\n", *rec.Target.ItemCount)
	}
	if rec.Target.Checksum != nil {
		fmt.Printf("Checksum:      %s\n", *rec.Target.Checksum)
	}
	if rec.Target.Extension != "" {
		fmt.Printf("Extension:     %s\n", rec.Target.Extension)
	}

	if rec.Security.Owner != nil || rec.Security.PermissionsOctal != "" {
		fmt.Println("\nSecurity")
		fmt.Println(strings.Repeat("-", 60))
		if rec.Security.Owner != nil {
			group := ""
			if rec.Security.Group != nil {
				group = ":" + *rec.Security.Group
			}
			fmt.Printf("Owner:         %s%s\n", *rec.Security.Owner, group)
		}
		if rec.Security.PermissionsOctal != "" {
			fmt.Printf("Permissions:   %s\n", rec.Security.PermissionsOctal)
		}
	}

	fmt.Println("\nConfig")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Default mode:  %s\n", rec.Config.DefaultMode)
	fmt.Printf("Platform:      %s\n", rec.Config.Platform)

	if len(rec.Meta.UpdateHistory) > 0 {
		fmt.Printf("\nHistory:       %s\n", strings.Join(rec.Meta.UpdateHistory, ", "))
	}
	return nil
}
