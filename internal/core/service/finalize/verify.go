package finalize

import (
	"context"
	"fmt"

	"brickvault/internal/core/domain"
)

// magicHeaderBytes is how much of a file is fetched for content sniffing.
const magicHeaderBytes = 512

type probedFile struct {
	file domain.ProjectFile
	key  string
	size int64
}

// verifyFiles runs the per-file verification pipeline in two passes. The
// preflight pass (existence, size, magic bytes) fails fast: the first
// structural problem aborts before any remaining file is evaluated. The
// aggregate pass (parts-list validation) always completes so the caller sees
// every failing file and row in one round trip.
func (s *finalizeService) verifyFiles(ctx context.Context, files []domain.ProjectFile) ([]domain.FileValidationResult, *domain.FinalizeError) {
	probed := make([]probedFile, 0, len(files))

	for _, file := range files {
		key := storageKey(file.FileURL)

		size, err := s.storage.ObjectSize(ctx, key)
		if err != nil {
			return nil, fileNotInStorage(file)
		}

		limit := s.uploadCfg.FileSizeLimit(file.FileType)
		if size > limit {
			return nil, &domain.FinalizeError{
				Code: domain.FinalizeErrSizeTooLarge,
				Message: fmt.Sprintf("file %s exceeds size limit (%dMB > %dMB)",
					file.OriginalFilename, size/(1024*1024), limit/(1024*1024)),
				Details: map[string]any{
					"filename":    file.OriginalFilename,
					"file_type":   file.FileType,
					"actual_size": size,
					"max_size":    limit,
				},
			}
		}

		if file.FileType != domain.FileTypePartsList && size > 0 {
			header, err := s.storage.GetHeaderBytes(ctx, key, magicHeaderBytes)
			if err != nil {
				return nil, fileNotInStorage(file)
			}

			expectedMime := file.ExpectedMimeType()
			if !s.validator.ValidateMagicBytes(header, expectedMime) {
				return nil, &domain.FinalizeError{
					Code: domain.FinalizeErrInvalidType,
					Message: fmt.Sprintf("file %s content does not match expected type %q, the file may be corrupted or have an incorrect extension",
						file.OriginalFilename, expectedMime),
					Details: map[string]any{
						"filename":      file.OriginalFilename,
						"file_type":     file.FileType,
						"expected_mime": expectedMime,
					},
				}
			}
		}

		probed = append(probed, probedFile{file: file, key: key, size: size})
	}

	validated := make([]domain.FileValidationResult, 0, len(probed))
	for _, p := range probed {
		result := domain.FileValidationResult{
			FileID:   p.file.ID,
			Filename: filenameOrUnknown(p.file),
			Success:  true,
		}

		if p.file.FileType == domain.FileTypePartsList && p.size > 0 {
			data, err := s.storage.GetObject(ctx, p.key)
			if err != nil {
				return nil, fileNotInStorage(p.file)
			}

			report := s.validator.ValidatePartsList(data, p.file.OriginalFilename, p.file.MimeType)
			result.Warnings = report.Warnings
			if report.Success {
				count := report.TotalPieceCount
				result.PieceCount = &count
			} else {
				result.Success = false
				result.Errors = report.Errors
			}
		}

		validated = append(validated, result)
	}

	return validated, nil
}

func fileNotInStorage(file domain.ProjectFile) *domain.FinalizeError {
	return &domain.FinalizeError{
		Code:    domain.FinalizeErrFileNotInStorage,
		Message: fmt.Sprintf("file %s was not uploaded successfully, please try again", file.OriginalFilename),
		Details: map[string]any{
			"file_id":  file.ID,
			"filename": file.OriginalFilename,
		},
	}
}

func filenameOrUnknown(file domain.ProjectFile) string {
	if file.OriginalFilename == "" {
		return "unknown"
	}
	return file.OriginalFilename
}
