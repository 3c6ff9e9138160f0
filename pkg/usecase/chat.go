package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

const (
	msgChatParseFailure  = "Failed to parse Slack request. Please provide a clearer query."
	msgSlackNotConnected = "Slack is not connected to this project. Please complete the Slack setup first."
	msgNoMessageContent  = "No message content provided for sending."
	msgInvalidChatAction = "Invalid action. Please specify 'send', 'get', or 'list_channels'."
	msgChatErrorPrefix   = "Error handling Slack message: "

	// historyLimit is the number of newest messages shown by "get"
	historyLimit = 10
)

// ChatUseCase executes chat operations against the project's Slack workspace
type ChatUseCase struct {
	repo      interfaces.Repository
	slack     slack.Service
	extractor *IntentExtractor
}

func NewChatUseCase(repo interfaces.Repository, svc slack.Service, extractor *IntentExtractor) *ChatUseCase {
	return &ChatUseCase{repo: repo, slack: svc, extractor: extractor}
}

// Handle extracts a chat operation from query and runs it. Every outcome, including
// failures, is rendered as a user-facing string.
func (uc *ChatUseCase) Handle(ctx context.Context, callerID model.UserID, projectID int64, query string) string {
	token, guidance, err := uc.resolveToken(ctx, callerID, projectID)
	if err != nil {
		return renderChatError(ctx, err)
	}
	if guidance != "" {
		return guidance
	}

	action, err := uc.extractor.ExtractChatAction(ctx, query)
	if err != nil {
		if errors.Is(err, ErrUnparsableAction) {
			logging.From(ctx).Info("chat action could not be parsed", "error", err)
			return msgChatParseFailure
		}
		return renderChatError(ctx, err)
	}

	resp, err := uc.execute(ctx, token, action)
	if err != nil {
		return renderChatError(ctx, err)
	}
	return resp
}

func (uc *ChatUseCase) resolveToken(ctx context.Context, callerID model.UserID, projectID int64) (string, string, error) {
	if _, err := uc.repo.Project().Get(ctx, callerID, projectID); err != nil {
		return "", "", goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, projectID))
	}

	cred, err := uc.repo.Credential().Get(ctx, projectID, types.VendorSlack)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", msgSlackNotConnected, nil
		}
		return "", "", goerr.Wrap(err, "failed to get Slack credential", goerr.V(model.ProjectIDKey, projectID))
	}
	if cred.Slack == nil || cred.Slack.AccessToken == "" {
		return "", msgSlackNotConnected, nil
	}
	return string(cred.Slack.AccessToken), "", nil
}

func (uc *ChatUseCase) execute(ctx context.Context, token string, action *model.ChatAction) (string, error) {
	if !action.Kind.IsValid() {
		return msgInvalidChatAction, nil
	}

	channels, err := uc.slack.ListChannels(ctx, token)
	if err != nil {
		return "", err
	}

	if action.Kind == types.ChatActionListChannels {
		if len(channels) == 0 {
			return "No Slack channels available.", nil
		}
		names := make([]string, 0, len(channels))
		for _, ch := range channels {
			names = append(names, "- "+ch.Name)
		}
		return "Available Slack channels:\n\n" + strings.Join(names, "\n"), nil
	}

	// an empty name never matches and falls through to the not-found reply
	channel := findChannel(channels, action.ChannelName)
	if channel == nil {
		return fmt.Sprintf("Channel '%s' not found in Slack workspace.", action.ChannelName), nil
	}

	switch action.Kind {
	case types.ChatActionSend:
		if action.Message == "" {
			return msgNoMessageContent, nil
		}
		if _, err := uc.slack.PostMessage(ctx, token, channel.ID, action.Message); err != nil {
			return "", err
		}
		return fmt.Sprintf("Message '%s' has been sent to Slack channel '%s'.", action.Message, channel.Name), nil

	default:
		return uc.history(ctx, token, channel)
	}
}

func (uc *ChatUseCase) history(ctx context.Context, token string, channel *slack.Channel) (string, error) {
	messages, err := uc.slack.GetConversationHistory(ctx, token, channel.ID, historyLimit)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return fmt.Sprintf("No messages found in Slack channel '%s'.", channel.Name), nil
	}

	names := map[string]string{}
	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		name, ok := names[m.UserID]
		if !ok {
			name = uc.displayName(ctx, token, m.UserID)
			names[m.UserID] = name
		}

		date, err := slack.FormatTimestamp(m.Timestamp)
		if err != nil {
			date = m.Timestamp
		}
		blocks = append(blocks, fmt.Sprintf("Username: %s, Message: %s, Date: %s", name, m.Text, date))
	}

	return fmt.Sprintf("Last %d messages in Slack channel '%s':\n\n%s",
		historyLimit, channel.Name, strings.Join(blocks, "\n\n")), nil
}

// displayName resolves a Slack user ID, falling back to the raw ID on any failure
func (uc *ChatUseCase) displayName(ctx context.Context, token, userID string) string {
	if userID == "" {
		return "unknown"
	}
	user, err := uc.slack.GetUserInfo(ctx, token, userID)
	if err != nil {
		logging.From(ctx).Debug("failed to resolve Slack user", "user_id", userID, "error", err)
		return userID
	}
	return user.DisplayName()
}

// findChannel matches the name exactly; "#general" does not match "general"
func findChannel(channels []slack.Channel, name string) *slack.Channel {
	for i := range channels {
		if channels[i].Name == name {
			return &channels[i]
		}
	}
	return nil
}

func renderChatError(ctx context.Context, err error) string {
	logging.From(ctx).Warn("Slack operation failed", "error", err)
	return msgChatErrorPrefix + err.Error()
}
