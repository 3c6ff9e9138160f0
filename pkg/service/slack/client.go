package slack

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	// DefaultAPIURL is the Slack Web API endpoint
	DefaultAPIURL = slack.APIURL
	// DefaultTimeout bounds a single API call
	DefaultTimeout = 30 * time.Second

	// OAuthAuthorizeURL is where users grant the bot access
	OAuthAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	// OAuthScopes are the bot scopes requested during installation
	OAuthScopes = "channels:read,chat:write,users:read"

	listChannelsPageSize = 200
)

// client implements Service interface
type client struct {
	apiURL     string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL overrides the Web API endpoint. The URL must end with "/".
func WithAPIURL(apiURL string) Option {
	return func(c *client) {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		c.apiURL = apiURL
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new Slack service
func New(opts ...Option) Service {
	c := &client{
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) api(token string) *slack.Client {
	return slack.New(token,
		slack.OptionAPIURL(c.apiURL),
		slack.OptionHTTPClient(c.httpClient),
	)
}

// classify separates ok=false answers from transport level failures
func classify(method string, err error) error {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return &APIError{Method: method, Code: slackErr.Err}
	}
	return &TransportError{Method: method, Err: err}
}

func (c *client) ListChannels(ctx context.Context, token string) ([]Channel, error) {
	api := c.api(token)

	var channels []Channel
	var cursor string
	for {
		convs, next, err := api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types:           []string{"public_channel"},
			ExcludeArchived: true,
			Limit:           listChannelsPageSize,
			Cursor:          cursor,
		})
		if err != nil {
			return nil, goerr.Wrap(classify("conversations.list", err), "failed to list channels")
		}

		for _, conv := range convs {
			channels = append(channels, Channel{ID: conv.ID, Name: conv.Name})
		}

		if next == "" {
			break
		}
		cursor = next
	}
	return channels, nil
}

func (c *client) PostMessage(ctx context.Context, token, channelID, text string) (string, error) {
	_, ts, err := c.api(token).PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", goerr.Wrap(classify("chat.postMessage", err), "failed to post message",
			goerr.V(model.ChannelKey, channelID))
	}
	return ts, nil
}

func (c *client) GetConversationHistory(ctx context.Context, token, channelID string, limit int) ([]Message, error) {
	resp, err := c.api(token).GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, goerr.Wrap(classify("conversations.history", err), "failed to get conversation history",
			goerr.V(model.ChannelKey, channelID))
	}

	messages := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		author := m.User
		if author == "" {
			author = m.BotID
		}
		messages = append(messages, Message{
			UserID:    author,
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return messages, nil
}

func (c *client) GetUserInfo(ctx context.Context, token, userID string) (*User, error) {
	user, err := c.api(token).GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(classify("users.info", err), "failed to get user info", goerr.V("user_id", userID))
	}

	return &User{
		ID:       user.ID,
		Name:     user.Name,
		RealName: user.RealName,
	}, nil
}

func (c *client) ExchangeOAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*Installation, error) {
	doer := &apiURLRewriter{base: c.httpClient, apiURL: c.apiURL}
	resp, err := slack.GetOAuthV2ResponseContext(ctx, doer, clientID, clientSecret, code, redirectURI)
	if err != nil {
		return nil, goerr.Wrap(classify("oauth.v2.access", err), "failed to exchange OAuth code")
	}

	return &Installation{
		AccessToken: model.SecretString(resp.AccessToken),
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		BotUserID:   resp.BotUserID,
	}, nil
}

// apiURLRewriter redirects requests that slack-go builds against slack.APIURL,
// such as oauth.v2.access, to the configured endpoint.
type apiURLRewriter struct {
	base   *http.Client
	apiURL string
}

func (r *apiURLRewriter) Do(req *http.Request) (*http.Response, error) {
	target := req.URL.String()
	if r.apiURL == DefaultAPIURL || !strings.HasPrefix(target, DefaultAPIURL) {
		return r.base.Do(req)
	}

	u, err := url.Parse(r.apiURL + strings.TrimPrefix(target, DefaultAPIURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to rewrite Slack API URL", goerr.V("url", target))
	}
	req = req.Clone(req.Context())
	req.URL = u
	req.Host = u.Host
	return r.base.Do(req)
}
