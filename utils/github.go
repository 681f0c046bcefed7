package utils

import (
	"context"
	"fmt"
	net "net/http"

	"github.com/google/go-github/v61/github"
	"golang.org/x/oauth2"
)

// just a wrapper around github client to be able to use mocks
type GithubRealClientProvider struct {
}

type GithubMockClientProvider struct {
	MockedHTTPClient *net.Client
}

type GithubClientProvider interface {
	Get(token string) (*github.Client, error)
}

func (gh *GithubRealClientProvider) Get(token string) (*github.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is not set")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ghClient := github.NewClient(oauth2.NewClient(context.Background(), ts))
	return ghClient, nil
}

func (gh *GithubMockClientProvider) Get(token string) (*github.Client, error) {
	ghClient := github.NewClient(gh.MockedHTTPClient)
	return ghClient, nil
}

// CloseIssue sets the state of an issue to closed.
func CloseIssue(ctx context.Context, client *github.Client, repoOwner string, repoName string, issueNumber int) error {
	_, _, err := client.Issues.Edit(ctx, repoOwner, repoName, issueNumber, &github.IssueRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("error closing issue %v/%v#%v: %v", repoOwner, repoName, issueNumber, err)
	}
	return nil
}
