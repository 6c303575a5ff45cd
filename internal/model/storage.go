package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameStorage = "storage"

// Storage mapped from table <storage>
type Storage struct {
	ID              int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID             int64      `gorm:"column:uid;not null;index:idx_storage_uid" json:"uid" form:"uid"`
	Type            string     `gorm:"column:type;not null" json:"type" form:"type"`
	Endpoint        string     `gorm:"column:endpoint" json:"endpoint" form:"endpoint"`
	Region          string     `gorm:"column:region" json:"region" form:"region"`
	AccountID       string     `gorm:"column:account_id" json:"accountId" form:"accountId"`
	BucketName      string     `gorm:"column:bucket_name" json:"bucketName" form:"bucketName"`
	AccessKeyID     string     `gorm:"column:access_key_id" json:"accessKeyId" form:"accessKeyId"`
	AccessKeySecret string     `gorm:"column:access_key_secret" json:"-" form:"-"`
	CustomPath      string     `gorm:"column:custom_path" json:"customPath" form:"customPath"`
	User            string     `gorm:"column:user" json:"user" form:"user"`
	Password        string     `gorm:"column:password" json:"-" form:"-"`
	IsDeleted       bool       `gorm:"column:is_deleted;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt       timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt       timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Storage's table name
func (*Storage) TableName() string {
	return TableNameStorage
}
