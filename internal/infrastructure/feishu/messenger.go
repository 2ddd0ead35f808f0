package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	larkcontact "github.com/larksuite/oapi-sdk-go/v3/service/contact/v3"
	larkdocx "github.com/larksuite/oapi-sdk-go/v3/service/docx/v1"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"

	"github.com/ctf-hub/ctfbot/internal/domain/chat"
)

// blockTypeText is the docx paragraph block type.
const blockTypeText = 2

func messageContent(msg chat.Message) (string, error) {
	var content map[string]string
	switch msg.Type {
	case chat.MessageTypeText:
		content = map[string]string{"text": msg.Text}
	case chat.MessageTypeShareChat:
		content = map[string]string{"chat_id": msg.ChatID}
	default:
		return "", fmt.Errorf("unsupported message type %q", msg.Type)
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) SendMessage(ctx context.Context, chatID string, msg chat.Message) error {
	if strings.TrimSpace(chatID) == "" {
		return fmt.Errorf("chat id is required")
	}
	content, err := messageContent(msg)
	if err != nil {
		return err
	}
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(chatID).
			MsgType(string(msg.Type)).
			Content(content).
			Build()).
		Build()
	resp, err := c.lark.Im.V1.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("send message to %s: %w", chatID, err)
	}
	if !resp.Success() {
		return fmt.Errorf("send message to %s: %w", chatID, newAPIError(resp.ApiResp, resp.CodeError))
	}
	return nil
}

func (c *Client) CreateChatGroup(ctx context.Context, name, description string) (*chat.ChatInfo, error) {
	req := larkim.NewCreateChatReqBuilder().
		SetBotManager(true).
		Body(larkim.NewCreateChatReqBodyBuilder().
			Name(name).
			Description(description).
			Build()).
		Build()
	resp, err := c.lark.Im.V1.Chat.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat %q: %w", name, err)
	}
	if !resp.Success() {
		return nil, fmt.Errorf("create chat %q: %w", name, newAPIError(resp.ApiResp, resp.CodeError))
	}
	if resp.Data == nil || value(resp.Data.ChatId) == "" {
		return nil, fmt.Errorf("create chat %q: response has no chat id", name)
	}
	return &chat.ChatInfo{
		ChatID:      value(resp.Data.ChatId),
		Name:        value(resp.Data.Name),
		Description: value(resp.Data.Description),
	}, nil
}

func (c *Client) GetChatInfo(ctx context.Context, chatID string) (*chat.ChatInfo, error) {
	resp, err := c.lark.Im.V1.Chat.Get(ctx, larkim.NewGetChatReqBuilder().ChatId(chatID).Build())
	if err != nil {
		return nil, fmt.Errorf("get chat %s: %w", chatID, err)
	}
	if !resp.Success() {
		return nil, fmt.Errorf("get chat %s: %w", chatID, newAPIError(resp.ApiResp, resp.CodeError))
	}
	info := &chat.ChatInfo{ChatID: chatID}
	if resp.Data != nil {
		info.Name = value(resp.Data.Name)
		info.Description = value(resp.Data.Description)
	}
	return info, nil
}

// GetUserDisplayName resolves a user's name. Open ids ("ou_" prefix) and
// tenant user ids are both accepted.
func (c *Client) GetUserDisplayName(ctx context.Context, userID string) (string, error) {
	idType := "user_id"
	if strings.HasPrefix(userID, "ou_") {
		idType = "open_id"
	}
	req := larkcontact.NewGetUserReqBuilder().
		UserId(userID).
		UserIdType(idType).
		Build()
	resp, err := c.lark.Contact.V3.User.Get(ctx, req)
	if err != nil {
		return "", fmt.Errorf("get user %s: %w", userID, err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("get user %s: %w", userID, newAPIError(resp.ApiResp, resp.CodeError))
	}
	if resp.Data == nil || resp.Data.User == nil {
		return userID, nil
	}
	if name := value(resp.Data.User.Name); name != "" {
		return name, nil
	}
	if name := value(resp.Data.User.EnName); name != "" {
		return name, nil
	}
	return userID, nil
}

func (c *Client) GetDocument(ctx context.Context, token string) (*chat.Document, error) {
	meta, err := c.lark.Docx.V1.Document.Get(ctx, larkdocx.NewGetDocumentReqBuilder().DocumentId(token).Build())
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", token, err)
	}
	if !meta.Success() {
		return nil, fmt.Errorf("get document %s: %w", token, newAPIError(meta.ApiResp, meta.CodeError))
	}
	raw, err := c.lark.Docx.V1.Document.RawContent(ctx, larkdocx.NewRawContentDocumentReqBuilder().DocumentId(token).Build())
	if err != nil {
		return nil, fmt.Errorf("get document content %s: %w", token, err)
	}
	if !raw.Success() {
		return nil, fmt.Errorf("get document content %s: %w", token, newAPIError(raw.ApiResp, raw.CodeError))
	}

	doc := &chat.Document{Token: token}
	if meta.Data != nil && meta.Data.Document != nil {
		doc.Title = value(meta.Data.Document.Title)
	}
	if raw.Data != nil {
		doc.Content = value(raw.Data.Content)
	}
	return doc, nil
}

// UpdateDocument appends a paragraph to the end of the document body.
func (c *Client) UpdateDocument(ctx context.Context, token string, patch chat.DocumentPatch) error {
	if patch.AppendText == "" {
		return nil
	}
	paragraph := larkdocx.NewBlockBuilder().
		BlockType(blockTypeText).
		Text(larkdocx.NewTextBuilder().
			Elements([]*larkdocx.TextElement{
				larkdocx.NewTextElementBuilder().
					TextRun(larkdocx.NewTextRunBuilder().Content(patch.AppendText).Build()).
					Build(),
			}).
			Build()).
		Build()
	req := larkdocx.NewCreateDocumentBlockChildrenReqBuilder().
		DocumentId(token).
		BlockId(token).
		DocumentRevisionId(-1).
		Body(larkdocx.NewCreateDocumentBlockChildrenReqBodyBuilder().
			Children([]*larkdocx.Block{paragraph}).
			Index(-1).
			Build()).
		Build()
	resp, err := c.lark.Docx.V1.DocumentBlockChildren.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("update document %s: %w", token, err)
	}
	if !resp.Success() {
		return fmt.Errorf("update document %s: %w", token, newAPIError(resp.ApiResp, resp.CodeError))
	}
	return nil
}
