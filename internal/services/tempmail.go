package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	lowerDigits  = "abcdefghijklmnopqrstuvwxyz0123456789"
	letterDigits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// TempMailClient talks to the mail.tm REST API.
type TempMailClient struct {
	baseURL string
	client  *http.Client
}

// MailAccount is a freshly provisioned disposable mailbox. The token is a
// bearer credential and must never be placed in a callback token.
type MailAccount struct {
	Address  string
	Password string
	Token    string
}

type MailMessage struct {
	ID      string
	From    string
	Subject string
}

type MailLink struct {
	Text string
	Href string
}

func NewTempMailClient(baseURL string) *TempMailClient {
	return &TempMailClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TempMailClient) doJSON(ctx context.Context, method, path, token string, body interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

// CreateAccount provisions a mailbox with random credentials and returns it
// along with its bearer token.
func (c *TempMailClient) CreateAccount(ctx context.Context) (*MailAccount, error) {
	data, status, err := c.doJSON(ctx, http.MethodGet, "/domains", "", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("could not fetch mail domains: HTTP %d", status)
	}

	var domains struct {
		Members []struct {
			Domain string `json:"domain"`
		} `json:"hydra:member"`
	}
	if err := json.Unmarshal(data, &domains); err != nil || len(domains.Members) == 0 {
		return nil, fmt.Errorf("no mail domains available")
	}

	address := fmt.Sprintf("%s@%s", randomString(lowerDigits, 12), domains.Members[0].Domain)
	password := randomString(letterDigits, 12)
	creds := map[string]string{"address": address, "password": password}

	_, status, err = c.doJSON(ctx, http.MethodPost, "/accounts", "", creds)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("could not create mail account: HTTP %d", status)
	}

	data, status, err = c.doJSON(ctx, http.MethodPost, "/token", "", creds)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("could not get mail token: HTTP %d", status)
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &tokenResp); err != nil || tokenResp.Token == "" {
		return nil, fmt.Errorf("could not parse mail token")
	}

	return &MailAccount{Address: address, Password: password, Token: tokenResp.Token}, nil
}

// Messages lists inbox previews for the account behind token.
func (c *TempMailClient) Messages(ctx context.Context, token string) ([]MailMessage, error) {
	data, status, err := c.doJSON(ctx, http.MethodGet, "/messages", token, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch messages: HTTP %d", status)
	}

	var resp struct {
		Members []struct {
			ID   string `json:"id"`
			From struct {
				Address string `json:"address"`
			} `json:"from"`
			Subject string `json:"subject"`
		} `json:"hydra:member"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse messages")
	}

	messages := make([]MailMessage, 0, len(resp.Members))
	for _, m := range resp.Members {
		messages = append(messages, MailMessage{ID: m.ID, From: m.From.Address, Subject: m.Subject})
	}
	return messages, nil
}

// MessageHTML fetches the HTML body of one message.
func (c *TempMailClient) MessageHTML(ctx context.Context, token, id string) (string, error) {
	data, status, err := c.doJSON(ctx, http.MethodGet, "/messages/"+id, token, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("failed to fetch message: HTTP %d", status)
	}

	var resp struct {
		HTML []string `json:"html"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse message")
	}
	if len(resp.HTML) == 0 {
		return "", nil
	}
	return resp.HTML[0], nil
}

var (
	htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)
	anchorRe  = regexp.MustCompile(`(?is)<a[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)

	otpPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{6}\b`),
		regexp.MustCompile(`(?i)code is:\s*(\d+)`),
		regexp.MustCompile(`(?i)verification code:\s*(\d+)`),
		regexp.MustCompile(`(?i)security code:\s*(\w+)`),
	}

	linkKeywords = []string{"verify", "confirm", "activate", "validate", "complete"}
)

// ExtractOTPsAndLinks scans an HTML body for one-time codes and verification
// links so the user gets the useful bits instead of a raw email dump.
func ExtractOTPsAndLinks(htmlBody string) ([]string, []MailLink) {
	if htmlBody == "" {
		return nil, nil
	}

	var links []MailLink
	for _, m := range anchorRe.FindAllStringSubmatch(htmlBody, -1) {
		text := strings.TrimSpace(htmlTagRe.ReplaceAllString(m[2], " "))
		lower := strings.ToLower(text)
		for _, kw := range linkKeywords {
			if strings.Contains(lower, kw) {
				links = append(links, MailLink{Text: text, Href: m[1]})
				break
			}
		}
	}

	text := htmlTagRe.ReplaceAllString(htmlBody, " ")
	var otps []string
	seen := make(map[string]bool)
	for _, re := range otpPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			otp := m[0]
			if len(m) > 1 {
				otp = m[1]
			}
			if !seen[otp] {
				seen[otp] = true
				otps = append(otps, otp)
			}
		}
	}

	return otps, links
}

func randomString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
