package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/storage"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		parentID   string
		prefix     string
		skipUpload bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Upload a media or track file and register it as an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]
			info, err := os.Stat(filePath)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", filePath)
			}

			store, stor, err := ctx.services(cmd)
			if err != nil {
				return err
			}

			fileName := filepath.Base(filePath)
			objectName := path.Join(prefix, fileName)

			if !skipUpload {
				if err := stor.EnsureBucket(cmd.Context()); err != nil {
					return err
				}
				if err := stor.UploadFile(cmd.Context(), objectName, filePath); err != nil {
					return err
				}
			}

			name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
			if title == "" {
				title = name
			}

			a := &models.Attachment{
				ParentID: parentID,
				Name:     name,
				Title:    title,
				MimeType: storage.ContentType(filePath),
				Path:     objectName,
			}
			if err := store.CreateAttachment(cmd.Context(), a); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%s)\n", fileName, a.ID, a.MimeType)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Attachment title (defaults to the file name)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent post ID")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix in the bucket")
	cmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "Register the attachment without uploading the file")
	return cmd
}
