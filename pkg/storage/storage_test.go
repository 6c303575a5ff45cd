package storage_test

import (
	"testing"

	"github.com/IxSyZ/my-life-diary/pkg/storage"
	"github.com/IxSyZ/my-life-diary/pkg/storage/local_fs"
)

func TestNewClient_Local(t *testing.T) {
	cfg := &storage.Config{
		Type:     storage.LOCAL,
		SavePath: t.TempDir(),
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		t.Fatalf("Failed to create local client: %v", err)
	}
	if client == nil {
		t.Fatal("Client is nil")
	}
	if _, ok := client.(*local_fs.LocalFS); !ok {
		t.Fatal("Client is not *local_fs.LocalFS")
	}
}

// Client construction is offline for every backend; only the first
// request touches the network.
func TestNewClient_AllTypes(t *testing.T) {
	tests := []*storage.Config{
		{Type: storage.S3, Region: "us-east-1", BucketName: "b", AccessKeyID: "k1", AccessKeySecret: "s"},
		{Type: storage.R2, AccountID: "acc", BucketName: "b", AccessKeyID: "k2", AccessKeySecret: "s"},
		{Type: storage.MinIO, Endpoint: "http://127.0.0.1:9000", BucketName: "b", AccessKeyID: "k3", AccessKeySecret: "s"},
		{Type: storage.OSS, Endpoint: "oss-cn-hangzhou.aliyuncs.com", BucketName: "b", AccessKeyID: "k4", AccessKeySecret: "s"},
		{Type: storage.WebDAV, Endpoint: "http://127.0.0.1:8080", User: "u", Password: "p"},
	}
	for _, cfg := range tests {
		client, err := storage.NewClient(cfg)
		if err != nil {
			t.Fatalf("NewClient(%s) failed: %v", cfg.Type, err)
		}
		if client == nil {
			t.Fatalf("NewClient(%s) returned nil client", cfg.Type)
		}
	}
}

func TestNewClient_Invalid(t *testing.T) {
	if _, err := storage.NewClient(&storage.Config{Type: "invalid"}); err == nil {
		t.Fatal("Expected error for invalid storage type")
	}
	if _, err := storage.NewClient(nil); err == nil {
		t.Fatal("Expected error for nil config")
	}
}
