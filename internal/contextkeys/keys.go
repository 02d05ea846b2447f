package contextkeys

import "context"

type messageTypeKey struct{}
type callbackDataKey struct{}
type langKey struct{}

type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeCommand     MessageType = "command"
	MessageTypeClickButton MessageType = "clickButton"
	MessageTypeMemberJoin  MessageType = "memberJoin"
	MessageTypeMemberLeft  MessageType = "memberLeft"
	MessageTypeChannelPost MessageType = "channelPost"
	MessageTypeChatMember  MessageType = "chatMember"
	MessageTypeUnknown     MessageType = "unknown"
)

func WithMessageType(ctx context.Context, msgType MessageType) context.Context {
	return context.WithValue(ctx, messageTypeKey{}, msgType)
}

func GetMessageType(ctx context.Context) (MessageType, bool) {
	v := ctx.Value(messageTypeKey{})
	if v == nil {
		return MessageTypeUnknown, false
	}
	return v.(MessageType), true
}

func WithCallbackData(ctx context.Context, data string) context.Context {
	return context.WithValue(ctx, callbackDataKey{}, data)
}

func GetCallbackData(ctx context.Context) (string, bool) {
	v := ctx.Value(callbackDataKey{})
	if v == nil {
		return "", false
	}
	return v.(string), true
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func GetLang(ctx context.Context) (string, bool) {
	v := ctx.Value(langKey{})
	if v == nil {
		return "", false
	}
	return v.(string), true
}
