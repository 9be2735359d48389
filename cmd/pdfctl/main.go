// pdfctl is a command line client for a PDF Studio server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pdf-studio/backend/pkg/client"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: pdfctl [-server URL] <command> [arguments]

Commands:
  upload  <file.pdf>                upload a PDF
  recent                            list recent files
  info    <fileId>                  show one file record
  preview <fileId>                  show preview details
  edit    <fileId> [flags]          apply edits (see edit -h)
  export  <fileId> [flags]          download in another format
  delete  <fileId>                  delete a file
`)
}

func main() {
	server := flag.String("server", envOr("PDFSTUDIO_SERVER", "http://localhost:8090"), "server base URL")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	api := client.New(*server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch args[0] {
	case "upload":
		err = cmdUpload(ctx, api, args[1:])
	case "recent":
		err = cmdRecent(ctx, api)
	case "info":
		err = cmdInfo(ctx, api, args[1:])
	case "preview":
		err = cmdPreview(ctx, api, args[1:])
	case "edit":
		err = cmdEdit(ctx, api, args[1:])
	case "export":
		err = cmdExport(ctx, api, args[1:])
	case "delete":
		err = cmdDelete(ctx, api, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pdfctl:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func oneArg(args []string, what string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing %s argument", what)
	}
	return args[0], nil
}

func cmdUpload(ctx context.Context, api *client.Client, args []string) error {
	path, err := oneArg(args, "file")
	if err != nil {
		return err
	}
	rec, err := api.Upload(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s (%s)\nfileId: %s\n",
		rec.FileName, client.FormatBytes(rec.FileSize), rec.FileID)
	return nil
}

func cmdRecent(ctx context.Context, api *client.Client) error {
	list, err := api.RecentFiles(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE ID\tNAME\tSIZE\tREV\tUPLOADED")
	for _, rec := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			rec.FileID, rec.FileName, client.FormatBytes(rec.FileSize),
			rec.Revision, rec.UploadDate.Format(time.RFC3339))
	}
	return w.Flush()
}

func cmdInfo(ctx context.Context, api *client.Client, args []string) error {
	id, err := oneArg(args, "fileId")
	if err != nil {
		return err
	}
	rec, err := api.GetFile(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("name:      %s\nsize:      %s\nstatus:    %s\nrevision:  %d\npages:     %d\nuploaded:  %s\n",
		rec.FileName, client.FormatBytes(rec.FileSize), rec.Status,
		rec.Revision, rec.PageCount, rec.UploadDate.Format(time.RFC3339))
	return nil
}

func cmdPreview(ctx context.Context, api *client.Client, args []string) error {
	id, err := oneArg(args, "fileId")
	if err != nil {
		return err
	}
	info, err := api.Preview(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("name:   %s\npages:  %d\nurl:    %s\n", info.FileName, info.PageCount, info.PreviewURL)
	return nil
}

func cmdEdit(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	page := fs.Int("page", 1, "page number for the edit")
	text := fs.String("text", "", "overlay text to add")
	x := fs.Float64("x", 72, "overlay x position in points")
	y := fs.Float64("y", 72, "overlay y position in points")
	size := fs.Float64("size", 12, "overlay font size")
	color := fs.String("color", "#000000", "overlay color")
	replace := fs.String("replace", "", "text replacement as original=new")
	title := fs.String("title", "", "document title")
	author := fs.String("author", "", "document author")
	subject := fs.String("subject", "", "document subject")
	keywords := fs.String("keywords", "", "document keywords")

	id, err := oneArg(args, "fileId")
	if err != nil {
		return err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var edits []client.Edit
	if *text != "" {
		edits = append(edits, client.Edit{
			PageNumber: *page,
			X:          *x,
			Y:          *y,
			Width:      float64(len(*text)) * *size * 0.6,
			Height:     *size * 1.2,
			Text:       *text,
			FontSize:   *size,
			Color:      *color,
			Action:     "add_text",
		})
	}
	if *replace != "" {
		orig, repl, ok := strings.Cut(*replace, "=")
		if !ok || orig == "" || repl == "" {
			return fmt.Errorf("-replace wants original=new, got %q", *replace)
		}
		edits = append(edits, client.Edit{
			PageNumber:      *page,
			Action:          "replace_text",
			OriginalText:    orig,
			ReplacementText: repl,
		})
	}

	var meta *client.Metadata
	if *title != "" || *author != "" || *subject != "" || *keywords != "" {
		meta = &client.Metadata{Title: *title, Author: *author, Subject: *subject, Keywords: *keywords}
	}

	if len(edits) == 0 && meta == nil {
		return fmt.Errorf("nothing to do: give -text, -replace, or metadata flags")
	}

	result, err := api.Edit(ctx, id, edits, meta)
	if err != nil {
		return err
	}
	fmt.Printf("editId: %s\n%s\n", result.EditID, result.Message)
	return nil
}

func cmdExport(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "pdf", "output format: pdf, png, jpg, docx")
	quality := fs.String("quality", "medium", "raster quality: low, medium, high")
	pages := fs.String("pages", "", "comma separated page numbers, e.g. 1,3,5")
	out := fs.String("out", ".", "destination directory")

	id, err := oneArg(args, "fileId")
	if err != nil {
		return err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	opts := client.ExportOptions{Format: *format, Quality: *quality}
	if *pages != "" {
		for _, part := range strings.Split(*pages, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 {
				return fmt.Errorf("bad page number %q", part)
			}
			opts.Pages = append(opts.Pages, n)
		}
	}

	path, err := api.Export(ctx, id, opts, *out)
	if err != nil {
		return err
	}
	fmt.Println("written:", path)
	return nil
}

func cmdDelete(ctx context.Context, api *client.Client, args []string) error {
	id, err := oneArg(args, "fileId")
	if err != nil {
		return err
	}
	result, err := api.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}
