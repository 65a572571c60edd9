package generator

import (
	"context"
	"errors"
	"strings"
)

// RemoteErrorKind は生成APIの呼び出し失敗の分類です。
type RemoteErrorKind int

const (
	// RemoteErrorTransient は一時的な障害で、リトライ対象です。
	RemoteErrorTransient RemoteErrorKind = iota
	RemoteErrorSafety
	RemoteErrorCredential
	RemoteErrorQuota
	RemoteErrorInvalidRequest
	RemoteErrorCanceled
)

func (k RemoteErrorKind) String() string {
	switch k {
	case RemoteErrorSafety:
		return "safety"
	case RemoteErrorCredential:
		return "credential"
	case RemoteErrorQuota:
		return "quota"
	case RemoteErrorInvalidRequest:
		return "invalid_request"
	case RemoteErrorCanceled:
		return "canceled"
	}
	return "transient"
}

// Permanent はリトライしても結果が変わらない失敗かどうかを返します。
func (k RemoteErrorKind) Permanent() bool {
	return k != RemoteErrorTransient
}

// remoteErrorTokens はエラーメッセージから分類を判定するための語句です。上から順に評価します。
// API のエラー文言に依存しているため、文言が変わった場合はここだけを直します。
var remoteErrorTokens = []struct {
	kind   RemoteErrorKind
	tokens []string
}{
	{RemoteErrorSafety, []string{"safety"}},
	{RemoteErrorCredential, []string{"api key", "api_key", "credential", "unauthenticated", "permission denied", "permission_denied"}},
	{RemoteErrorQuota, []string{"quota", "rate limit", "resource_exhausted", "resource exhausted", "too many requests"}},
	{RemoteErrorInvalidRequest, []string{"invalid"}},
}

// ClassifyRemoteError は生成APIの呼び出しエラーを分類します。
func ClassifyRemoteError(err error) RemoteErrorKind {
	if err == nil {
		return RemoteErrorTransient
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return RemoteErrorCanceled
	}

	msg := strings.ToLower(err.Error())
	for _, group := range remoteErrorTokens {
		for _, token := range group.tokens {
			if strings.Contains(msg, token) {
				return group.kind
			}
		}
	}
	return RemoteErrorTransient
}

// FailureMessage はリトライ後も解消しなかったエラーをユーザー向けの文言に変換します。
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	switch ClassifyRemoteError(err) {
	case RemoteErrorSafety:
		return "リクエストが安全ポリシーによりブロックされました。プロンプトや画像にセンシティブな内容が含まれていないか確認してください。"
	case RemoteErrorCredential:
		return "認証エラー: APIキーが無効、または設定されていません。設定を確認してください。"
	case RemoteErrorQuota:
		return "APIの利用上限（quota）を超えました。プランを確認し、しばらくしてから再度お試しください。"
	case RemoteErrorCanceled:
		return "画像生成が中断されました。"
	}
	return "APIでエラーが発生しました: " + err.Error()
}
