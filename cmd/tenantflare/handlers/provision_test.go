package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/platform/cloudflare"
	"github.com/imamik/tenantflare/internal/platform/d1"
)

type fakeBuckets struct {
	exists    bool
	existsErr error
	created   []string
}

func (f *fakeBuckets) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeBuckets) CreateBucket(_ context.Context, name string) error {
	f.created = append(f.created, name)
	return nil
}

type fakeDBAdmin struct {
	created []string
}

func (f *fakeDBAdmin) CreateDatabase(_ context.Context, name, _ string) (*d1.Database, error) {
	f.created = append(f.created, name)
	return &d1.Database{UUID: "db-new", Name: name}, nil
}

type fakeSchema struct {
	called bool
	err    error
}

func (f *fakeSchema) EnsureSchema(context.Context) error {
	f.called = true
	return f.err
}

type fakeDeployer struct {
	scripts []string
	meta    cloudflare.WorkerMetadata
}

func (f *fakeDeployer) DeployWorkerScript(_ context.Context, scriptName string, _ []byte, meta cloudflare.WorkerMetadata) error {
	f.scripts = append(f.scripts, scriptName)
	f.meta = meta
	return nil
}

type provisionFakes struct {
	buckets  *fakeBuckets
	dbAdmin  *fakeDBAdmin
	schema   *fakeSchema
	deployer *fakeDeployer
}

func useProvisionFakes(t *testing.T, cfg *config.Config) *provisionFakes {
	t.Helper()
	fakes := &provisionFakes{
		buckets:  &fakeBuckets{},
		dbAdmin:  &fakeDBAdmin{},
		schema:   &fakeSchema{},
		deployer: &fakeDeployer{},
	}

	origLoad := loadConfigLoose
	origBuckets := newBucketProvisioner
	origDB := newDatabaseAdmin
	origSchema := newSchemaEnsurer
	origDeployer := newWorkerDeployer
	origRead := readWorkerScript
	t.Cleanup(func() {
		loadConfigLoose = origLoad
		newBucketProvisioner = origBuckets
		newDatabaseAdmin = origDB
		newSchemaEnsurer = origSchema
		newWorkerDeployer = origDeployer
		readWorkerScript = origRead
	})

	loadConfigLoose = func(string) (*config.Config, error) { return cfg, nil }
	newBucketProvisioner = func(*config.Config) (bucketProvisioner, error) { return fakes.buckets, nil }
	newDatabaseAdmin = func(*config.Config) databaseAdmin { return fakes.dbAdmin }
	newSchemaEnsurer = func(*config.Config) schemaEnsurer { return fakes.schema }
	newWorkerDeployer = func(*config.Config) workerDeployer { return fakes.deployer }
	readWorkerScript = func(string) ([]byte, error) { return []byte("export default {}"), nil }

	return fakes
}

func provisionConfig() *config.Config {
	return &config.Config{
		PlatformDomain: "example-saas.com",
		Cloudflare: config.CloudflareConfig{
			APIToken:     "token",
			AccountID:    "acct-1",
			ZoneID:       "zone-1",
			WorkerScript: "tenant-router",
		},
		R2: config.R2Config{Bucket: "tenant-sites", AccessKey: "ak", SecretKey: "sk"},
		D1: config.D1Config{DatabaseID: "db-1"},
	}
}

func TestProvisionCreatesMissingBucket(t *testing.T) {
	fakes := useProvisionFakes(t, provisionConfig())

	err := Provision(context.Background(), "", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-sites"}, fakes.buckets.created)
	assert.True(t, fakes.schema.called)
	assert.Empty(t, fakes.dbAdmin.created, "database exists, nothing to create")
	assert.Empty(t, fakes.deployer.scripts, "no script given, nothing to deploy")
}

func TestProvisionSkipsExistingBucket(t *testing.T) {
	fakes := useProvisionFakes(t, provisionConfig())
	fakes.buckets.exists = true

	require.NoError(t, Provision(context.Background(), "", ""))
	assert.Empty(t, fakes.buckets.created)
}

func TestProvisionCreatesDatabaseWhenUnconfigured(t *testing.T) {
	cfg := provisionConfig()
	cfg.D1.DatabaseID = ""
	fakes := useProvisionFakes(t, cfg)

	var err error
	output := captureOutput(func() {
		err = Provision(context.Background(), "", "")
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"tenantflare"}, fakes.dbAdmin.created)
	assert.Equal(t, "db-new", cfg.D1.DatabaseID, "fresh database ID is used for the rest of the run")
	assert.Contains(t, output, "database_id: db-new")
}

func TestProvisionDeploysWorkerWithBindings(t *testing.T) {
	fakes := useProvisionFakes(t, provisionConfig())

	err := Provision(context.Background(), "", "worker/router.mjs")

	require.NoError(t, err)
	require.Equal(t, []string{"tenant-router"}, fakes.deployer.scripts)
	assert.Equal(t, "router.mjs", fakes.deployer.meta.MainModule)
	require.Len(t, fakes.deployer.meta.Bindings, 1)
	assert.Equal(t, "r2_bucket", fakes.deployer.meta.Bindings[0].Type)
	assert.Equal(t, "tenant-sites", fakes.deployer.meta.Bindings[0].BucketName)
	assert.Equal(t, "example-saas.com", fakes.deployer.meta.Vars["PLATFORM_DOMAIN"])
}

func TestProvisionSchemaFailure(t *testing.T) {
	fakes := useProvisionFakes(t, provisionConfig())
	fakes.schema.err = errors.New("query failed")

	err := Provision(context.Background(), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create tables")
}

func TestProvisionValidatesConfig(t *testing.T) {
	cfg := &config.Config{}
	useProvisionFakes(t, cfg)

	err := Provision(context.Background(), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform_domain is required")
	assert.Contains(t, err.Error(), "CLOUDFLARE_API_TOKEN")
	assert.Contains(t, err.Error(), "r2.bucket is required")
}
