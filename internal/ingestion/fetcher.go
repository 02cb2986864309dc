package ingestion

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DatasetURLTemplate locates the gzipped per-department DVF extract on
// files.data.gouv.fr. The single %s is the department code.
const DatasetURLTemplate = "https://files.data.gouv.fr/geo-dvf/latest/csv/2024/departements/%s.csv.gz"

// fetchDataset downloads the gzipped extract for a department and
// decompresses it to a temporary CSV file. The gzip artifact is
// removed before returning; the caller owns removal of the returned
// CSV path.
func (p *Pipeline) fetchDataset(ctx context.Context, department string) (string, error) {
	url := fmt.Sprintf(p.urlTemplate, department)

	gzPath, err := p.download(ctx, url)
	if err != nil {
		return "", err
	}
	defer os.Remove(gzPath)

	return decompress(gzPath)
}

func (p *Pipeline) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s for %s", ErrFetch, resp.Status, url)
	}

	tmp, err := os.CreateTemp("", "dvf-*.csv.gz")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	return tmp.Name(), nil
}

func decompress(gzPath string) (string, error) {
	in, err := os.Open(gzPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out, err := os.CreateTemp("", "dvf-*.csv")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := zr.Close(); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return out.Name(), nil
}
