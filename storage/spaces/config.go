package spaces

import (
	"fmt"
	"os"
	"strings"
)

// Config carries the credentials and addressing for one Space. Zero-value
// fields are filled from the environment when the store is built, so a host
// can configure the adapter from a file, from the environment, or a mix of
// both. Explicit values always win over the environment.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string

	// SpaceURL is the public base under which stored objects are reachable.
	// Defaults to https://{bucket}.{region}.digitaloceanspaces.com.
	SpaceURL string

	// Subfolder is an optional key prefix inside the bucket. A leading slash
	// is stripped.
	Subfolder string

	// Endpoint is the S3 API endpoint. Defaults to
	// https://{region}.digitaloceanspaces.com.
	Endpoint string
}

func (c Config) withEnv() Config {
	c.AccessKeyID = firstNonEmpty(c.AccessKeyID, os.Getenv("SPACES_ACCESS_KEY_ID"))
	c.SecretAccessKey = firstNonEmpty(c.SecretAccessKey, os.Getenv("SPACES_SECRET_ACCESS_KEY"))
	c.Region = firstNonEmpty(c.Region, os.Getenv("SPACES_REGION"))
	c.Bucket = firstNonEmpty(c.Bucket, os.Getenv("SPACES_BUCKET"))
	c.SpaceURL = firstNonEmpty(c.SpaceURL, os.Getenv("SPACES_URL"))
	c.Subfolder = firstNonEmpty(c.Subfolder, os.Getenv("SPACES_SUBFOLDER"))
	c.Endpoint = firstNonEmpty(c.Endpoint, os.Getenv("SPACES_ENDPOINT"))

	if c.SpaceURL == "" && c.Bucket != "" && c.Region != "" {
		c.SpaceURL = fmt.Sprintf("https://%s.%s.digitaloceanspaces.com", c.Bucket, c.Region)
	}
	if c.Endpoint == "" && c.Region != "" {
		c.Endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", c.Region)
	}
	c.Subfolder = strings.TrimPrefix(c.Subfolder, "/")
	return c
}

func (c Config) validate() error {
	missing := []string{}
	if c.AccessKeyID == "" {
		missing = append(missing, "access key id")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "secret access key")
	}
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("spaces config missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
