package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func GetRandomUserAgent() string {
	return userAgents[time.Now().UnixNano()%int64(len(userAgents))]
}

func RenewOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	index := 1
	for {
		outputPath = filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return outputPath
		}
		index++
	}
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ComputeSpeed is a plain average over the whole transfer, not a moving window.
func ComputeSpeed(downloaded int64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(downloaded) / seconds
}

func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "0 B/s"
	}
	return FormatBytes(uint64(bytesPerSecond)) + "/s"
}

func IsS3Path(outputPath string) bool {
	return strings.HasPrefix(outputPath, "s3://")
}

func TempDirFor(outputPath string) string {
	if IsS3Path(outputPath) {
		return filepath.Join(os.TempDir(), TempDirName)
	}
	return filepath.Join(filepath.Dir(outputPath), TempDirName)
}

func PartFileName(tempDir, outputPath string, chunkID int) string {
	return filepath.Join(tempDir, fmt.Sprintf("%s.part%d", filepath.Base(outputPath), chunkID))
}

func ExtractChunkID(filename string) (int, error) {
	matches := ChunkIDRegex.FindStringSubmatch(filename)
	if len(matches) < 2 {
		return -1, fmt.Errorf("could not extract chunk ID from %s", filename)
	}
	return strconv.Atoi(matches[1])
}

// ReadDownloadList parses a batch file and returns its entries in file
// order per section, with each entry's Type set to the normalized section
// name. Sections of unknown type are an error.
func ReadDownloadList(filePath string) ([]DownloadEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %w", err)
	}
	sections := make([]string, 0, len(batch))
	for section := range batch {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	var entries []DownloadEntry
	for _, section := range sections {
		jobType := NormalizeJobType(section)
		if jobType == "" {
			return nil, fmt.Errorf("unknown job type %q in batch file", section)
		}
		for i, entry := range batch[section] {
			if entry.URL == "" {
				return nil, fmt.Errorf("missing link for entry %d in %s section", i+1, section)
			}
			entry.Type = jobType
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func NormalizeJobType(jobType string) string {
	switch strings.ToLower(strings.TrimSpace(jobType)) {
	case "http", "https":
		return "http"
	default:
		return ""
	}
}

// CleanPartFiles removes the part files left behind for outputPath and drops
// the temp directory once it is empty.
func CleanPartFiles(outputPath string) error {
	tempDir := TempDirFor(outputPath)
	files, err := os.ReadDir(tempDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	partPrefix := filepath.Base(outputPath) + ".part"
	for _, file := range files {
		if strings.HasPrefix(file.Name(), partPrefix) {
			if err := os.RemoveAll(filepath.Join(tempDir, file.Name())); err != nil {
				return err
			}
		}
	}
	remaining, err := os.ReadDir(tempDir)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return os.Remove(tempDir)
	}
	return nil
}

func CleanTempDir(dir string) error {
	tempDir := filepath.Join(dir, TempDirName)
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	return os.RemoveAll(tempDir)
}
