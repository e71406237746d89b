package queue

// EstimatePageCount guesses a document's page count from its size when the
// submitter supplies none. The per-page byte cost grows with file size
// since larger documents tend to embed images.
func EstimatePageCount(sizeBytes int64) int {
	if sizeBytes <= 100_000 {
		return 1
	}

	var perPage int64
	switch {
	case sizeBytes < 500_000:
		perPage = 80_000
	case sizeBytes < 2_000_000:
		perPage = 100_000
	default:
		perPage = 150_000
	}

	pages := int((sizeBytes + perPage - 1) / perPage)
	if pages < 1 {
		pages = 1
	}
	return pages
}
