package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
}

func TestLoadConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "recipes")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recipenest_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RECOMMEND_QUERY_TIMEOUT", "2s")
	t.Setenv("REFRESH_HOUR", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, "recipes", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "recipenest_test", cfg.Database.Name)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.Recommend.QueryTimeout)
	assert.Equal(t, 3, cfg.Recommend.RefreshHour)
	assert.Equal(t, Development, cfg.Environment)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "recipenest", cfg.Database.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Recommend.SimilarityLimit)
	assert.Equal(t, 20, cfg.Recommend.PersonalizedLimit)
	assert.Equal(t, 10, cfg.Recommend.RefreshLimit)
	assert.Equal(t, 0, cfg.Recommend.RefreshHour)
	assert.True(t, cfg.Recommend.RefreshEnabled)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pw"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "pw", cfg.Database.Password)
}

func TestLoadConfigFromFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "security:\n  jwt_secret: file-secret\nrecommend:\n  personalized_limit: 15\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.Security.JWTSecret)
	assert.Equal(t, 15, cfg.Recommend.PersonalizedLimit)
}

func TestValidateConfig(t *testing.T) {
	t.Run("production requires credentials", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Environment = Production

		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
		assert.Contains(t, err.Error(), "security.jwt_secret")
		assert.Contains(t, err.Error(), "redis.password")
	})

	t.Run("database url satisfies password requirement", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Environment = CI
		cfg.Database.URL = "postgres://u:p@db/recipenest"
		cfg.Security.JWTSecret = "s"

		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("rejects out of range schedule", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Environment = Development
		cfg.Security.JWTSecret = "s"
		cfg.Recommend.RefreshHour = 24
		cfg.Recommend.QueryTimeout = 0

		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recommend.refresh_hour")
		assert.Contains(t, err.Error(), "recommend.query_timeout")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
	assert.Equal(t, "h:1/n", d.Redacted())

	d.URL = "postgres://u:p@db:5432/recipes"
	assert.Equal(t, d.URL, d.DSN())
	assert.Equal(t, "db:5432/recipes", d.Redacted())
}

func TestParseS3URI(t *testing.T) {
	bucket, key, ok := ParseS3URI("s3://catalog-bucket/exports/recipes.json")
	assert.True(t, ok)
	assert.Equal(t, "catalog-bucket", bucket)
	assert.Equal(t, "exports/recipes.json", key)

	for _, bad := range []string{"recipes.json", "s3://bucket", "s3:///key", "s3://bucket/"} {
		_, _, ok := ParseS3URI(bad)
		assert.False(t, ok, bad)
	}
}

type fakeObjects struct {
	bucket, key string
	body        string
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3ConfigOpen(t *testing.T) {
	objects := &fakeObjects{body: `[{"title":"Dal"}]`}
	s := &S3Config{Client: objects, BucketName: "catalog"}

	rc, err := s.Open(context.Background(), "recipes.json")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Dal"}]`, string(data))
	assert.Equal(t, "catalog", objects.bucket)
	assert.Equal(t, "recipes.json", objects.key)

	_, err = (&S3Config{Client: objects}).Open(context.Background(), "x")
	assert.Error(t, err)
}

func TestGetEnvironment(t *testing.T) {
	cases := []struct {
		ci, env string
		want    Environment
	}{
		{"", "", Development},
		{"", "production", Production},
		{"", " Production ", Production},
		{"", "test", Test},
		{"", "staging", Development},
		{"true", "production", CI},
	}
	for _, tc := range cases {
		t.Setenv("CI", tc.ci)
		t.Setenv("ENV", tc.env)
		got := GetEnvironment()
		assert.Equal(t, tc.want, got, "CI=%q ENV=%q", tc.ci, tc.env)
		assert.Equal(t, tc.want == Production, got.IsProduction())
	}
}
