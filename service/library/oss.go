// Package library 管理素材资产（OSS直传、下载链接）和素材向量索引。
package library

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"meditation-assistant-backend/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	osscred "github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/aliyun/credentials-go/credentials"
)

const (
	policyExpire       = 30 * time.Minute
	presignExpire      = 15 * time.Minute
	signatureVersion   = "OSS4-HMAC-SHA256"
	signatureTerminal  = "aliyun_v4_request"
	signatureKeyPrefix = "aliyun_v4"
)

// PolicyToken 前端直传文件至OSS的凭证
type PolicyToken struct {
	Policy           string `json:"policy"`
	SecurityToken    string `json:"security_token,omitempty"`
	SignatureVersion string `json:"x_oss_signature_version"`
	Credential       string `json:"x_oss_credential"`
	Date             string `json:"x_oss_date"`
	Signature        string `json:"signature"`
	Host             string `json:"host"`
	Dir              string `json:"dir"`
}

// GeneratePolicyToken 签发V4 post policy，限定上传目录前缀
func GeneratePolicyToken(dir string) (*PolicyToken, error) {
	cred, err := credentials.NewCredential(&credentials.Config{
		Type:            strPtr("access_key"),
		AccessKeyId:     strPtr(config.Cfg.OSS.AccessKeyID),
		AccessKeySecret: strPtr(config.Cfg.OSS.AccessKeySecret),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %v", err)
	}

	credModel, err := cred.GetCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %v", err)
	}

	now := time.Now().UTC()
	date := now.Format("20060102")
	dateTime := now.Format("20060102T150405Z")
	credential := fmt.Sprintf("%s/%s/%s/oss/%s",
		*credModel.AccessKeyId, date, config.Cfg.OSS.Region, signatureTerminal)

	conditions := []any{
		map[string]string{"bucket": config.Cfg.OSS.BucketName},
		map[string]string{"x-oss-signature-version": signatureVersion},
		map[string]string{"x-oss-credential": credential},
		map[string]string{"x-oss-date": dateTime},
		[]any{"starts-with", "$key", dir},
	}

	securityToken := ""
	if credModel.SecurityToken != nil && *credModel.SecurityToken != "" {
		securityToken = *credModel.SecurityToken
		conditions = append(conditions, map[string]string{"x-oss-security-token": securityToken})
	}

	policy := map[string]any{
		"expiration": now.Add(policyExpire).Format("2006-01-02T15:04:05.000Z"),
		"conditions": conditions,
	}

	policyJSON, err := json.Marshal(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal policy: %v", err)
	}
	policyBase64 := base64.StdEncoding.EncodeToString(policyJSON)

	signature := signPolicy(policyBase64, *credModel.AccessKeySecret, date)

	return &PolicyToken{
		Policy:           policyBase64,
		SecurityToken:    securityToken,
		SignatureVersion: signatureVersion,
		Credential:       credential,
		Date:             dateTime,
		Signature:        signature,
		Host:             config.Cfg.OSS.Host,
		Dir:              dir,
	}, nil
}

// V4签名链：date -> region -> oss -> aliyun_v4_request，最后对policy求HMAC
func signPolicy(policyBase64, accessKeySecret, date string) string {
	key := hmacSHA256([]byte(signatureKeyPrefix+accessKeySecret), date)
	key = hmacSHA256(key, config.Cfg.OSS.Region)
	key = hmacSHA256(key, "oss")
	key = hmacSHA256(key, signatureTerminal)
	return hex.EncodeToString(hmacSHA256(key, policyBase64))
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func ossClient() *oss.Client {
	cfg := &oss.Config{
		Region: oss.Ptr(config.Cfg.OSS.Region),
		CredentialsProvider: osscred.NewStaticCredentialsProvider(
			config.Cfg.OSS.AccessKeyID,
			config.Cfg.OSS.AccessKeySecret,
		),
	}
	return oss.NewClient(cfg)
}

// GeneratePresignedURL 为素材音频生成限时下载链接
func GeneratePresignedURL(ctx context.Context, objectName string) (string, error) {
	result, err := ossClient().Presign(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(config.Cfg.OSS.BucketName),
		Key:    oss.Ptr(objectName),
	}, oss.PresignExpires(presignExpire))
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %v", objectName, err)
	}
	return result.URL, nil
}

// GetObject 下载OSS对象内容，索引流水线用来取引导文稿
func GetObject(ctx context.Context, objectName string) ([]byte, error) {
	result, err := ossClient().GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(config.Cfg.OSS.BucketName),
		Key:    oss.Ptr(objectName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %v", objectName, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %v", objectName, err)
	}

	return data, nil
}

func DeleteObject(ctx context.Context, objectName string) error {
	_, err := ossClient().DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(config.Cfg.OSS.BucketName),
		Key:    oss.Ptr(objectName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectName, err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
