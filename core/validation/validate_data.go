package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	accountIDPattern = regexp.MustCompile(`^\d{12}$`)
	roleNamePattern  = regexp.MustCompile(`^[\w+=,.@/-]+$`)
	bucketPattern    = regexp.MustCompile(`^[a-z0-9.-]+$`)
)

// ValidateDestination checks that path is an S3 URL of the form
// s3://bucket/prefix. The bucket may hold lowercase letters, digits, dots
// and hyphens; its length is left to S3.
func ValidateDestination(path string) error {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return fmt.Errorf("destination %q must start with s3://", path)
	}

	bucket, _, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return fmt.Errorf("destination %q has no bucket", path)
	}
	if !bucketPattern.MatchString(bucket) {
		return fmt.Errorf("destination %q has an invalid bucket name %q", path, bucket)
	}
	return nil
}

// ValidateAccountID checks for a 12-digit AWS account ID.
func ValidateAccountID(id string) error {
	if !accountIDPattern.MatchString(id) {
		return fmt.Errorf("invalid AWS account ID %q: must be 12 digits", id)
	}
	return nil
}

// ValidateRoleName checks an IAM role name, optionally with a path prefix.
func ValidateRoleName(name string) error {
	if name == "" {
		return fmt.Errorf("IAM role name cannot be empty")
	}
	if len(name) > 64+512 {
		return fmt.Errorf("IAM role name %q is too long", name)
	}
	if !roleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid IAM role name %q", name)
	}
	return nil
}
