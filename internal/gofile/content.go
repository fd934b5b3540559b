package gofile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
)

// GetContent returns the content with the given id. Folders come back with
// their direct children in Contents.
func (c *Client) GetContent(ctx context.Context, contentID, token string) (*types.Content, error) {
	if contentID == "" {
		return nil, invalid("content id", "a content id is required")
	}
	token, err := c.requireToken(token)
	if err != nil {
		return nil, err
	}

	var result types.Content
	err = c.call(ctx, &opts{
		method:   http.MethodGet,
		endpoint: endpointGetContent,
		parameters: url.Values{
			"contentId": {contentID},
			"token":     {token},
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateFolder creates folderName inside parentFolderID
func (c *Client) CreateFolder(ctx context.Context, parentFolderID, folderName, token string) (*types.Content, error) {
	if parentFolderID == "" {
		return nil, invalid("parent folder id", "a parent folder id is required")
	}
	if strings.TrimSpace(folderName) == "" {
		return nil, invalid("folder name", "a folder name is required")
	}
	token, err := c.requireToken(token)
	if err != nil {
		return nil, err
	}

	var result types.Content
	err = c.call(ctx, &opts{
		method:   http.MethodPut,
		endpoint: endpointCreateFolder,
		form: url.Values{
			"parentFolderId": {parentFolderID},
			"folderName":     {folderName},
			"token":          {token},
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetFolderOption sets one option of a folder. The value must have the kind
// the option expects, see ValidateFolderOption.
func (c *Client) SetFolderOption(ctx context.Context, folderID, option string, value any, token string) error {
	if folderID == "" {
		return invalid("folder id", "a folder id is required")
	}
	encoded, err := EncodeFolderOption(option, value)
	if err != nil {
		return err
	}
	token, err = c.requireToken(token)
	if err != nil {
		return err
	}

	return c.call(ctx, &opts{
		method:   http.MethodPut,
		endpoint: endpointSetFolderOption,
		form: url.Values{
			"folderId": {folderID},
			"option":   {option},
			"value":    {encoded},
			"token":    {token},
		},
	}, nil)
}

// CopyContent copies contentIDs into folderIDDest
func (c *Client) CopyContent(ctx context.Context, contentIDs []string, folderIDDest, token string) error {
	ids, err := joinIDs(contentIDs)
	if err != nil {
		return err
	}
	if folderIDDest == "" {
		return invalid("destination folder id", "a destination folder id is required")
	}
	token, err = c.requireToken(token)
	if err != nil {
		return err
	}

	return c.call(ctx, &opts{
		method:   http.MethodPut,
		endpoint: endpointCopyContent,
		form: url.Values{
			"contentsId":   {ids},
			"folderIdDest": {folderIDDest},
			"token":        {token},
		},
	}, nil)
}

// DeleteContent deletes contentIDs. The returned map holds the per id
// status when the service reports one.
func (c *Client) DeleteContent(ctx context.Context, contentIDs []string, token string) (map[string]string, error) {
	ids, err := joinIDs(contentIDs)
	if err != nil {
		return nil, err
	}
	token, err = c.requireToken(token)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	err = c.call(ctx, &opts{
		method:   http.MethodDelete,
		endpoint: endpointDeleteContent,
		form: url.Values{
			"contentsId": {ids},
			"token":      {token},
		},
	}, &raw)
	if err != nil {
		// A data member that is not an object carries no per id status
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	result := make(map[string]string, len(raw))
	for id, value := range raw {
		var status string
		if json.Unmarshal(value, &status) == nil {
			result[id] = status
		} else {
			result[id] = string(value)
		}
	}
	return result, nil
}

// GetAccountDetails returns the account owning token. allDetails asks the
// service for the extended payload, available in Account.Extra.
func (c *Client) GetAccountDetails(ctx context.Context, token string, allDetails bool) (*types.Account, error) {
	token, err := c.requireToken(token)
	if err != nil {
		return nil, err
	}

	params := url.Values{"token": {token}}
	if allDetails {
		params.Set("allDetails", "true")
	}

	var raw json.RawMessage
	err = c.call(ctx, &opts{
		method:     http.MethodGet,
		endpoint:   endpointGetAccountDetails,
		parameters: params,
	}, &raw)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, errors.Errorf("%s: empty account details", endpointGetAccountDetails)
	}

	var account types.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, errors.Wrapf(err, "%s: failed to decode account", endpointGetAccountDetails)
	}
	if err := json.Unmarshal(raw, &account.Extra); err != nil {
		return nil, errors.Wrapf(err, "%s: failed to decode account", endpointGetAccountDetails)
	}
	return &account, nil
}

func joinIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", invalid("content ids", "at least one content id is required")
	}
	for _, id := range ids {
		if id == "" || strings.Contains(id, ",") {
			return "", invalid("content ids", "%q is not a valid content id", id)
		}
	}
	return strings.Join(ids, ","), nil
}
