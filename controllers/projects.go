package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectcardmover/backend/config"
	"github.com/projectcardmover/backend/utils"
)

// WebhookAckBody is the fixed acknowledgment returned for every webhook
// delivery. The contract with GitHub is "received", not "processed
// successfully", so the sender never retries.
const WebhookAckBody = "Webhook received"

type ProjectsController struct {
	Config               *config.Config
	GithubClientProvider utils.GithubClientProvider
}

// projectsV2ItemPayload is a partial decoding of the projects_v2_item
// webhook payload. NodeID is left untyped so a malformed delivery can be
// told apart from a missing one.
type projectsV2ItemPayload struct {
	Action         *string `json:"action"`
	ProjectsV2Item *struct {
		NodeID interface{} `json:"node_id"`
	} `json:"projects_v2_item"`
}

// ProjectsV2ItemWebhook handles project board item events. When an item is
// reordered and its Status field is Done, the linked issue gets closed.
// Processing failures surface only in logs.
func (d ProjectsController) ProjectsV2ItemWebhook(c *gin.Context) {
	defer c.String(http.StatusOK, WebhookAckBody)

	var payload projectsV2ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		slog.Info("Could not parse webhook payload, ignoring", "error", err)
		return
	}

	if payload.Action == nil {
		slog.Info("Action field not found in payload, ignoring")
		return
	}
	if *payload.Action != "reordered" {
		slog.Info("Not a reordered event, ignoring", "action", *payload.Action)
		return
	}
	if payload.ProjectsV2Item == nil || payload.ProjectsV2Item.NodeID == nil {
		slog.Info("Node ID not found in payload, ignoring")
		return
	}
	nodeID, ok := payload.ProjectsV2Item.NodeID.(string)
	if !ok {
		slog.Info("Node ID is not a string, ignoring", "nodeId", payload.ProjectsV2Item.NodeID)
		return
	}

	d.handleReorderedItem(c.Request.Context(), nodeID)
}

// handleReorderedItem runs the decision pipeline for one reordered project
// item: field-values query, Done check, issue-number query, close mutation.
// Every missing field short-circuits without error.
func (d ProjectsController) handleReorderedItem(ctx context.Context, nodeID string) {
	slog.Info("Processing reordered project item", "nodeId", nodeID)

	gql := utils.NewGraphQLClient(d.Config.GitHub.GraphQLURL, d.Config.GitHub.Token)

	var item utils.ProjectItemResponse
	if err := gql.Query(ctx, utils.PrepareProjectItemQuery(nodeID), &item); err != nil {
		slog.Error("Failed to query project item field values", "nodeId", nodeID, "error", err)
		return
	}

	if !item.StatusDone() {
		slog.Info("Status is not Done, ignoring", "nodeId", nodeID)
		return
	}

	issueID, ok := item.ContentID()
	if !ok {
		slog.Info("Issue ID not found in the field values response", "nodeId", nodeID)
		return
	}

	var issue utils.IssueNumberResponse
	if err := gql.Query(ctx, utils.PrepareIssueNumberQuery(issueID), &issue); err != nil {
		slog.Error("Failed to query issue number", "issueId", issueID, "error", err)
		return
	}

	issueNumber, ok := issue.IssueNumber()
	if !ok {
		slog.Info("Issue number not found in the second query", "issueId", issueID)
		return
	}

	repoOwner, repoName, ok := item.Repository()
	if !ok {
		slog.Info("Repository information not found", "issueId", issueID)
		return
	}

	ghClient, err := d.GithubClientProvider.Get(d.Config.GitHub.Token)
	if err != nil {
		slog.Error("Failed to create github client", "error", err)
		return
	}

	if err := utils.CloseIssue(ctx, ghClient, repoOwner, repoName, issueNumber); err != nil {
		slog.Error("Failed to close issue", "repoOwner", repoOwner, "repoName", repoName, "issueNumber", issueNumber, "error", err)
		return
	}

	slog.Info("Closed issue for done project item",
		"repoOwner", repoOwner,
		"repoName", repoName,
		"issueNumber", issueNumber,
		"assignees", item.AssigneeLogins())
}
