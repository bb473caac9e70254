package sheets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
)

// Service wraps the Google Drive API for listing and downloading the
// marketplace feed files dropped into a shared folder.
type Service struct {
	srv *drive.Service
}

func NewService(credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(context.Background())

	srv, err := drive.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %v", err)
	}

	return &Service{srv: srv}, nil
}

// File is a Drive file entry relevant to feed ingestion.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListFeedFiles lists the non-trashed CSV and XLSX files in a folder.
func (s *Service) ListFeedFiles(folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list feed files: %v", err)
	}

	var files []*File
	for _, f := range result.Files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		files = append(files, &File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}

	return files, nil
}

// Download streams a feed file's contents to w.
func (s *Service) Download(fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Download()
	if err != nil {
		return fmt.Errorf("unable to download file: %v", err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// DownloadFrame downloads a feed file and parses it into a frame, using the
// file name to pick the CSV or XLSX reader.
func (s *Service) DownloadFrame(fileID, name string) (*frame.Frame, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.Download(fileID, pw))
	}()

	fr, err := frame.Read(pr, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", name, err)
	}
	return fr, nil
}
