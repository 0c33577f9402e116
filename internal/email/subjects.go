package email

const (
	subjectDigestFmt        = "Daily sales digest for %s"
	subjectDigestPartialFmt = "Daily sales digest for %s (incomplete)"
)
