package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cadportal/internal/domain/admission"
	"cadportal/internal/uploadclient"
)

func newUploadCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "upload --project <id> <file>...",
		Short: "Upload CAD files to a project",
		Long: "Uploads files one at a time. Allowed types: " +
			strings.Join(admission.AllowedExtensions, ", ") + ".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			if s.UserID == "" {
				return errors.New("user id is not set (--user or CADUP_USER)")
			}

			client := s.client()
			tier, err := resolveTier(cmd, s, client)
			if err != nil {
				return err
			}

			var files []uploadclient.File
			for _, path := range args {
				f, err := uploadclient.FromPath(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			bar := newProgressPrinter()
			driver := uploadclient.NewDriver(client, uploadclient.Options{
				ProjectID:  projectID,
				UserID:     s.UserID,
				Tier:       tier,
				HTTPClient: s.httpClient(),
				OnProgress: bar.progress,
				OnStatus:   bar.status,
			})
			driver.Submit(cmd.Context(), files)

			failed := 0
			for _, f := range driver.Files() {
				if f.Status == uploadclient.StatusError {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// resolveTier prefers the configured tier and falls back to the account's.
func resolveTier(cmd *cobra.Command, s settings, client *uploadclient.Client) (admission.Tier, error) {
	if s.Tier != "" {
		tier, ok := admission.ParseTier(s.Tier)
		if !ok {
			return "", fmt.Errorf("unknown tier %q", s.Tier)
		}
		return tier, nil
	}
	acc, err := client.Account(cmd.Context())
	if err != nil {
		return "", describeError(err)
	}
	tier, ok := admission.ParseTier(acc.Tier)
	if !ok {
		return "", errors.New("account has no subscription tier; pass --tier")
	}
	return tier, nil
}

type progressPrinter struct {
	mu   sync.Mutex
	last map[string]int
}

func newProgressPrinter() *progressPrinter {
	return &progressPrinter{last: make(map[string]int)}
}

// progress prints every 10% step so piped output stays readable.
func (p *progressPrinter) progress(s uploadclient.FileState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	step := s.Progress / 10 * 10
	if prev, ok := p.last[s.ID]; ok && step <= prev {
		return
	}
	p.last[s.ID] = step
	fmt.Printf("  %s %3d%%\n", gray(s.Name), step)
}

func (p *progressPrinter) status(s uploadclient.FileState) {
	switch s.Status {
	case uploadclient.StatusUploading:
		fmt.Printf("%s %s\n", cyan("uploading"), s.Name)
	case uploadclient.StatusComplete:
		fmt.Printf("%s %s %s\n", green("done"), s.Name, gray(s.FileID))
	case uploadclient.StatusError:
		fmt.Printf("%s %s: %s\n", red("failed"), s.Name, s.Error)
	}
}
