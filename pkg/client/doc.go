// Package client provides a Go client for the tenderlens draft analysis API.
//
//	c, _ := client.New("http://localhost:8080")
//	draft, _ := c.CreateDraft(ctx, client.CreateDraftRequest{
//	    Title:       "Framework agreement for road maintenance",
//	    Description: "Maintenance and winter operations for municipal roads.",
//	})
//	analysis, _ := c.Analyze(ctx, draft.ID)
//	fmt.Println(analysis.Recommendation.Decision)
package client
