package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDownloadCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download a file you own or are assigned to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			link, err := s.client().DownloadLink(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, link.URL, nil)
			if err != nil {
				return err
			}
			resp, err := s.httpClient().Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("storage returned HTTP %d", resp.StatusCode)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			dest := filepath.Join(outDir, filepath.Base(link.Filename))
			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			n, err := io.Copy(f, resp.Body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n", green("saved"), dest, humanBytes(n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to write into")
	return cmd
}
