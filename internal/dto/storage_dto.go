package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// StorageDTO Backup target storage configuration
// StorageDTO 备份目标存储配置
type StorageDTO struct {
	ID              int64      `json:"id"`              // Storage ID // 存储ID
	UID             int64      `json:"uid"`             // User ID // 用户ID
	Type            string     `json:"type"`            // s3, r2, minio, oss, webdav or local // 存储类型
	Endpoint        string     `json:"endpoint"`        // Service endpoint // 服务端点
	Region          string     `json:"region"`          // Region // 区域
	AccountID       string     `json:"accountId"`       // Account ID (R2) // 账户ID
	BucketName      string     `json:"bucketName"`      // Bucket name // 存储桶
	AccessKeyID     string     `json:"accessKeyId"`     // Access key // 访问密钥ID
	AccessKeySecret string     `json:"accessKeySecret"` // Access secret // 访问密钥
	CustomPath      string     `json:"customPath"`      // Path prefix inside the bucket // 桶内路径前缀
	User            string     `json:"user"`            // WebDAV user // WebDAV 用户
	Password        string     `json:"password"`        // WebDAV password // WebDAV 密码
	CreatedAt       timex.Time `json:"createdAt"`       // Created time // 创建时间
	UpdatedAt       timex.Time `json:"updatedAt"`       // Updated time // 更新时间
}

// StoragePostRequest Storage configuration create/update request
// 存储配置创建/更新请求
type StoragePostRequest struct {
	ID      int64       `json:"id" form:"id"`
	Storage *StorageDTO `json:"storage" binding:"required"`
}

// StorageGetRequest Storage configuration get request
// 存储配置获取请求
type StorageGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// StorageDeleteRequest Storage configuration delete request
// 存储配置删除请求
type StorageDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}
