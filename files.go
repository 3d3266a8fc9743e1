package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drivecp/internal/drive"
	"drivecp/internal/transfer"
)

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [folder-path]",
		Short: "List files and folders",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}

	cmd.Flags().Bool("metadata", false, "include full descriptors (id, link, type)")
	cmd.Flags().Bool("shared", false, "list the shared-with-me collection")

	return cmd
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file-name> [local-name]",
		Short: "Download a file",
		Long: `Download a file from Google Drive.

Native Google documents, sheets, and presentations are exported to Office
formats and the matching suffix (.docx, .xlsx, .pptx) is appended to the
local name. Everything else is downloaded byte-identical.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runGet,
	}

	cmd.Flags().String("folder", "", "source folder path (default: drive root)")

	return cmd
}

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <local-path> [remote-name]",
		Short: "Upload a file",
		Long: `Upload a local file to Google Drive.

The remote name defaults to the local file name. No existence check is made:
Drive permits several files with the same name in one folder, and put always
creates a new one.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPut,
	}

	cmd.Flags().String("folder", "", "destination folder path (default: drive root)")

	return cmd
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <file-name>",
		Short: "Remove a file (moves it to the Drive trash)",
		Long: `Remove a file from Google Drive. Files are moved to the Drive trash by
default and can be restored from the Drive web interface.

If several files share the name, the most recently created one is removed.
Use --permanent to bypass the trash.`,
		Args: cobra.ExactArgs(1),
		RunE: runRm,
	}

	cmd.Flags().String("folder", "", "containing folder path (default: drive root)")
	cmd.Flags().Bool("permanent", false, "permanently delete instead of moving to the trash")

	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <folder-path>",
		Short: "Create a folder (recursive)",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
}

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <file-name>",
		Short: "Display file metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}

	cmd.Flags().String("folder", "", "containing folder path (default: drive root)")

	return cmd
}

// lsJSONItem is the JSON output schema for a single item in ls output.
// Metadata fields are omitted in name-only listings.
type lsJSONItem struct {
	Name       string `json:"name"`
	ID         string `json:"id,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	IsFolder   bool   `json:"is_folder,omitempty"`
	Size       int64  `json:"size,omitempty"`
	WebLink    string `json:"web_link,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

func runLs(cmd *cobra.Command, args []string) error {
	folderPath := ""
	if len(args) > 0 {
		folderPath = args[0]
	}

	metadata, err := cmd.Flags().GetBool("metadata")
	if err != nil {
		return err
	}

	shared, err := cmd.Flags().GetBool("shared")
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("ls", "path", folderPath, "metadata", metadata, "shared", shared)

	opts := transfer.ListOptions{
		IncludeMetadata: metadata,
		SharedWithMe:    shared,
	}
	if !shared {
		opts.FolderPath = effectiveFolder(folderPath)
	}

	entries, err := svc.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("listing %q: %w", displayFolder(folderPath), err)
	}

	if flagJSON {
		return printEntriesJSON(entries)
	}

	if metadata {
		printEntriesTable(entries)
		return nil
	}

	for _, e := range entries {
		fmt.Println(e.Name)
	}

	return nil
}

func printEntriesJSON(entries []transfer.Entry) error {
	out := make([]lsJSONItem, 0, len(entries))

	for _, e := range entries {
		item := lsJSONItem{Name: e.Name}
		if e.Detail != nil {
			item.ID = e.Detail.ID
			item.MimeType = e.Detail.MimeType
			item.IsFolder = e.Detail.IsFolder
			item.Size = e.Detail.Size
			item.WebLink = e.Detail.WebLink

			if !e.Detail.ModifiedAt.IsZero() {
				item.ModifiedAt = e.Detail.ModifiedAt.Format("2006-01-02T15:04:05Z")
			}
		}

		out = append(out, item)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printEntriesTable(entries []transfer.Entry) {
	headers := []string{"NAME", "SIZE", "MODIFIED", "ID"}
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		d := e.Detail

		name := e.Name
		if d.IsFolder {
			name += "/"
		}

		rows = append(rows, []string{name, formatSize(d.Size), formatTime(d.ModifiedAt), d.ID})
	}

	printTable(os.Stdout, headers, rows)
}

func runGet(cmd *cobra.Command, args []string) error {
	fileName := args[0]

	localName := ""
	if len(args) > 1 {
		localName = args[1]
	}

	folder, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("get", "file_name", fileName, "folder", folder)

	written, err := svc.Download(ctx, transfer.DownloadOptions{
		FileName:   fileName,
		LocalName:  localName,
		FolderPath: effectiveFolder(folder),
	})
	if err != nil {
		return fmt.Errorf("downloading %q: %w", fileName, err)
	}

	fi, statErr := os.Stat(written)
	if statErr != nil {
		return fmt.Errorf("stat after download: %w", statErr)
	}

	statusf("Downloaded %s (%s)\n", written, formatSize(fi.Size()))

	return nil
}

func runPut(cmd *cobra.Command, args []string) error {
	localPath := args[0]

	remoteName := ""
	if len(args) > 1 {
		remoteName = args[1]
	}

	folder, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	fi, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stating local file: %w", err)
	}

	if fi.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", localPath)
	}

	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("put", "local_path", localPath, "remote_name", remoteName, "folder", folder, "size", fi.Size())

	created, err := svc.Upload(ctx, transfer.UploadOptions{
		LocalPath:  localPath,
		RemoteName: remoteName,
		FolderPath: effectiveFolder(folder),
	})
	if err != nil {
		return fmt.Errorf("uploading %q: %w", localPath, err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(struct {
			Uploaded string `json:"uploaded"`
			ID       string `json:"id"`
		}{Uploaded: created.Name, ID: created.ID})
	}

	statusf("Uploaded %s (%s)\n", created.Name, formatSize(fi.Size()))

	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	fileName := args[0]

	folder, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	permanent, err := cmd.Flags().GetBool("permanent")
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("rm", "file_name", fileName, "folder", folder, "permanent", permanent)

	err = svc.Remove(ctx, transfer.RemoveOptions{
		FileName:   fileName,
		FolderPath: effectiveFolder(folder),
		Permanent:  permanent,
	})
	if err != nil {
		return fmt.Errorf("removing %q: %w", fileName, err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(struct {
			Removed string `json:"removed"`
		}{Removed: fileName})
	}

	statusf("Removed %s\n", fileName)

	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	folderPath := args[0]
	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("mkdir", "path", folderPath)

	folder, err := svc.EnsureFolderPath(ctx, effectiveFolder(folderPath))
	if err != nil {
		return fmt.Errorf("creating folder %q: %w", folderPath, err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(struct {
			Created string `json:"created"`
			ID      string `json:"id"`
		}{Created: folderPath, ID: folder.ID})
	}

	statusf("Created %s\n", folderPath)

	return nil
}

// statJSONOutput is the JSON output schema for the stat command.
type statJSONOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type,omitempty"`
	WebLink    string `json:"web_link,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

func runStat(cmd *cobra.Command, args []string) error {
	fileName := args[0]

	folder, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	logger.Debug("stat", "file_name", fileName, "folder", folder)

	obj, err := svc.Stat(ctx, fileName, effectiveFolder(folder))
	if err != nil {
		return fmt.Errorf("stating %q: %w", fileName, err)
	}

	if flagJSON {
		return printStatJSON(obj)
	}

	printStatText(obj)

	return nil
}

func printStatJSON(obj *drive.Object) error {
	out := statJSONOutput{
		ID:       obj.ID,
		Name:     obj.Name,
		Size:     obj.Size,
		MimeType: obj.MimeType,
		WebLink:  obj.WebLink,
	}

	if !obj.CreatedAt.IsZero() {
		out.CreatedAt = obj.CreatedAt.Format("2006-01-02T15:04:05Z")
	}

	if !obj.ModifiedAt.IsZero() {
		out.ModifiedAt = obj.ModifiedAt.Format("2006-01-02T15:04:05Z")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printStatText(obj *drive.Object) {
	fmt.Printf("Name:     %s\n", obj.Name)
	fmt.Printf("Size:     %s (%d bytes)\n", formatSize(obj.Size), obj.Size)
	fmt.Printf("MIME:     %s\n", obj.MimeType)
	fmt.Printf("ID:       %s\n", obj.ID)

	if obj.WebLink != "" {
		fmt.Printf("Link:     %s\n", obj.WebLink)
	}

	if !obj.ModifiedAt.IsZero() {
		fmt.Printf("Modified: %s\n", obj.ModifiedAt.Format("2006-01-02 15:04:05 UTC"))
	}
}

// displayFolder renders a user-supplied folder path for error messages.
func displayFolder(folderPath string) string {
	if folderPath == "" {
		return "/"
	}

	return folderPath
}
