package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/naming"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

var offline = map[string]string{"skipConfigLoad": "true"}

func newBaseNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "basename <video-url>",
		Short:       "Print the base name tracks of a video are matched against",
		Args:        cobra.ExactArgs(1),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), naming.DeriveBaseName(args[0]))
			return nil
		},
	}
}

func newMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "match <name>",
		Short:       "Parse a file name against the track naming convention",
		Args:        cobra.ExactArgs(1),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			tn, ok := naming.MatchTrackName(args[0])
			if !ok {
				return fmt.Errorf("%q is not a track name", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base:   %s\n", tn.Base)
			fmt.Fprintf(out, "Kind:   %s\n", tn.Kind)
			fmt.Fprintf(out, "Locale: %s\n", tn.Locale)
			return nil
		},
	}
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tracks <video-url>",
		Short: "List the tracks of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				fragment, ok, err := resolver.BuildHTMLFragment(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "No tracks found")
					return nil
				}
				fmt.Fprintln(out, fragment)

			case "json":
				sources, _, err := resolver.BuildJSONManifest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if sources == nil {
					sources = []models.TrackSource{}
				}
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(sources)

			default:
				return fmt.Errorf("unknown format %q (want json or html)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or html")
	return cmd
}

func newGroupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "group <base-name>",
		Short: "Show the tracks of a video grouped by kind and language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver(cmd)
			if err != nil {
				return err
			}

			groups, err := resolver.GroupForAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if groups.Len() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tracks for %s\n", args[0])
				return nil
			}

			var rows [][]string
			for _, group := range groups.Sorted() {
				for _, t := range group.Tracks {
					rows = append(rows, []string{string(group.Kind), t.Locale, t.Label, t.Track.Name})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Kind", "Locale", "Language", "Attachment"}, rows))
			return nil
		},
	}
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "video <track-name>",
		Short: "Show the video a track belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver(cmd)
			if err != nil {
				return err
			}

			video, ok, err := resolver.FindVideoForTrack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no video found for %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:    %s\n", video.ID)
			fmt.Fprintf(out, "Name:  %s\n", video.Name)
			fmt.Fprintf(out, "Title: %s\n", video.Title)
			fmt.Fprintf(out, "Type:  %s\n", video.MimeType)
			return nil
		},
	}
}
