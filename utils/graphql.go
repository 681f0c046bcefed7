package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

const githubUserAgent = "ProjectCardMover"

const projectItemQueryTemplate = `
    query {
        node(id: "$nodeId") {
            ... on ProjectV2Item {
                id
                fieldValues(first: 8) {
                    nodes {
                        ... on ProjectV2ItemFieldTextValue {
                            text
                            field {
                                ... on ProjectV2FieldCommon {
                                    name
                                }
                            }
                        }
                        ... on ProjectV2ItemFieldDateValue {
                            date
                            field {
                                ... on ProjectV2FieldCommon {
                                    name
                                }
                            }
                        }
                        ... on ProjectV2ItemFieldSingleSelectValue {
                            name
                            field {
                                ... on ProjectV2FieldCommon {
                                    name
                                }
                            }
                        }
                    }
                }
                content {
                    ... on Issue {
                        id
                        title
                        repository {
                            name
                            owner {
                                login
                            }
                        }
                        assignees(first: 10) {
                            nodes {
                                login
                            }
                        }
                    }
                    ... on PullRequest {
                        id
                        title
                        assignees(first: 10) {
                            nodes {
                                login
                            }
                        }
                    }
                }
            }
        }
    }
`

const issueNumberQueryTemplate = `
    query {
        node(id: "$issueId") {
            ... on Issue {
                number
            }
        }
    }
`

// PrepareProjectItemQuery returns the field-values query for a project item.
// Substitution is literal, the caller is expected to pass an opaque GitHub
// node id which can never contain the placeholder or quote characters.
func PrepareProjectItemQuery(nodeID string) string {
	return strings.ReplaceAll(projectItemQueryTemplate, "$nodeId", nodeID)
}

// PrepareIssueNumberQuery returns the query resolving an issue's
// repository-scoped number from its global node id.
func PrepareIssueNumberQuery(issueID string) string {
	return strings.ReplaceAll(issueNumberQueryTemplate, "$issueId", issueID)
}

// GraphQLClient is a minimal client for the GitHub GraphQL endpoint. It sends
// prebuilt query documents and decodes the response into a caller-provided
// shape; it performs no schema validation.
type GraphQLClient struct {
	Url        string
	Token      string
	HttpClient *http.Client
}

func NewGraphQLClient(url string, token string) *GraphQLClient {
	return &GraphQLClient{
		Url:        url,
		Token:      token,
		HttpClient: http.DefaultClient,
	}
}

// Query POSTs a query document and decodes the JSON response body into out.
// Fields missing from the response are simply left unset in out, only
// transport and decode failures are errors.
func (c *GraphQLClient) Query(ctx context.Context, query string, out interface{}) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("error marshalling graphql query: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating graphql request: %v", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Set("User-Agent", githubUserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending graphql request: %v", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding graphql response: %v", err)
	}
	return nil
}

// FieldValueNode is one entry of a project item's fieldValues connection.
// Exactly one of Text, Date or Name is set depending on the field type.
type FieldValueNode struct {
	Text  *string `json:"text"`
	Date  *string `json:"date"`
	Name  *string `json:"name"`
	Field struct {
		Name *string `json:"name"`
	} `json:"field"`
}

// Value returns the node's value regardless of variant, preferring the
// single-select name the way board status fields are modelled.
func (n FieldValueNode) Value() (string, bool) {
	switch {
	case n.Name != nil:
		return *n.Name, true
	case n.Text != nil:
		return *n.Text, true
	case n.Date != nil:
		return *n.Date, true
	}
	return "", false
}

// ProjectItemResponse is a partial decoding of the field-values query
// response. Absent fields decode to nil so that every lookup the decision
// step performs has an explicit "not found" outcome.
type ProjectItemResponse struct {
	Data struct {
		Node struct {
			Id          *string `json:"id"`
			FieldValues struct {
				Nodes []FieldValueNode `json:"nodes"`
			} `json:"fieldValues"`
			Content struct {
				Id         *string `json:"id"`
				Title      *string `json:"title"`
				Repository *struct {
					Name  *string `json:"name"`
					Owner struct {
						Login *string `json:"login"`
					} `json:"owner"`
				} `json:"repository"`
				Assignees struct {
					Nodes []AssigneeNode `json:"nodes"`
				} `json:"assignees"`
			} `json:"content"`
		} `json:"node"`
	} `json:"data"`
}

// StatusDone reports whether any field value names the "Status" field with
// the value "Done". The first matching node wins.
func (r *ProjectItemResponse) StatusDone() bool {
	for _, node := range r.Data.Node.FieldValues.Nodes {
		if node.Field.Name == nil || *node.Field.Name != "Status" {
			continue
		}
		if value, ok := node.Value(); ok && value == "Done" {
			return true
		}
	}
	return false
}

// ContentID returns the global node id of the item's linked issue or pull
// request.
func (r *ProjectItemResponse) ContentID() (string, bool) {
	if r.Data.Node.Content.Id == nil {
		return "", false
	}
	return *r.Data.Node.Content.Id, true
}

// Repository returns the owner login and name of the repository the linked
// issue belongs to.
func (r *ProjectItemResponse) Repository() (string, string, bool) {
	repo := r.Data.Node.Content.Repository
	if repo == nil || repo.Name == nil || repo.Owner.Login == nil {
		return "", "", false
	}
	return *repo.Owner.Login, *repo.Name, true
}

// AssigneeNode is one entry of an assignees connection.
type AssigneeNode struct {
	Login string `json:"login"`
}

// AssigneeLogins returns the logins assigned to the linked issue or pull
// request.
func (r *ProjectItemResponse) AssigneeLogins() []string {
	return lo.Map(r.Data.Node.Content.Assignees.Nodes, func(n AssigneeNode, _ int) string {
		return n.Login
	})
}

// IssueNumberResponse is a partial decoding of the issue-number query
// response.
type IssueNumberResponse struct {
	Data struct {
		Node struct {
			Number *int `json:"number"`
		} `json:"node"`
	} `json:"data"`
}

func (r *IssueNumberResponse) IssueNumber() (int, bool) {
	if r.Data.Node.Number == nil {
		return 0, false
	}
	return *r.Data.Node.Number, true
}
