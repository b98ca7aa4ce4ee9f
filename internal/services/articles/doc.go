// Package articlesvc implements the article and author operations consumed
// by the gRPC and HTTP transports: minting ids, publishing local articles,
// importing articles received from other servers, and filtered listing.
//
// Example:
//
//	svc := articlesvc.New(rt)
//	au, _ := svc.CreateAuthor(ctx, "ada", "")
//	a, _ := svc.PublishArticle(ctx, "Hello", au.ID, "")
//	page, _ := svc.ListArticles(ctx, articlesvc.ListOptions{Filter: `title.startsWith("He")`})
package articlesvc
