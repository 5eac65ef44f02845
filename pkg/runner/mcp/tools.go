package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/query"
)

var categoryEnum = mcp.Enum("daily", "weekly", "monthly", "yearly")

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerAnswerQuestionTool(srv, svc)
	registerTrashEntryTool(srv, svc)
	registerRestoreEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerNeighborTool(srv, svc)
	registerListQuestionsTool(srv, svc)
	registerStatsTool(srv, svc)
}

func registerCreateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_entry",
		mcp.WithDescription("Create a journal entry. Free text makes it a free-writing entry; otherwise it is seeded with the active questions of its category."),
		mcp.WithString("category",
			mcp.Description("Category of the entry, defaults to daily."),
			categoryEnum,
		),
		mcp.WithString("title",
			mcp.Description("Optional title."),
		),
		mcp.WithString("text",
			mcp.Description("Free-writing text. HTML is allowed."),
		),
		mcp.WithString("mood",
			mcp.Description("Optional mood label."),
		),
		mcp.WithString("location",
			mcp.Description("Optional free text location."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma separated tags."),
		),
		mcp.WithBoolean("private",
			mcp.Description("Hide the entry from non-admin readers."),
		),
		mcp.WithString("date",
			mcp.Description("Period in picker form: 2024-03-09, 2024-W10, 2024-03 or 2024. Defaults to now."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Category string `json:"category"`
			Title    string `json:"title"`
			Text     string `json:"text"`
			Mood     string `json:"mood"`
			Location string `json:"location"`
			Tags     string `json:"tags"`
			Private  bool   `json:"private"`
			Date     string `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.AddEntry(ctx, AddEntryOptions{
			Category: args.Category,
			Title:    args.Title,
			Text:     args.Text,
			Mood:     args.Mood,
			Location: args.Location,
			Tags:     ParseTags(args.Tags),
			Private:  args.Private,
			Date:     args.Date,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_entry",
		mcp.WithDescription("Change fields of an entry. Omitted fields are left as they are."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("text", mcp.Description("New free-writing text.")),
		mcp.WithString("mood", mcp.Description("New mood label.")),
		mcp.WithString("location", mcp.Description("New location.")),
		mcp.WithString("tags", mcp.Description("Comma separated tags replacing the current ones.")),
		mcp.WithBoolean("private", mcp.Description("Set or clear the private flag.")),
		mcp.WithBoolean("favorite", mcp.Description("Set or clear the favorite flag.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args := request.GetArguments()
		opts := UpdateEntryOptions{
			ID:       id,
			Title:    optionalString(args, "title"),
			Text:     optionalString(args, "text"),
			Mood:     optionalString(args, "mood"),
			Location: optionalString(args, "location"),
			Private:  optionalBool(args, "private"),
			Favorite: optionalBool(args, "favorite"),
		}
		if raw := optionalString(args, "tags"); raw != nil {
			tags := ParseTags(*raw)
			opts.Tags = &tags
		}

		dto, err := svc.UpdateEntry(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAnswerQuestionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"answer_question",
		mcp.WithDescription("Store the answer to one question on an entry."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier."),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Question identifier, see list_questions."),
		),
		mcp.WithString("answer",
			mcp.Description("Answer text. Empty clears the answer."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		qid, err := request.RequireString("question_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AnswerQuestion(ctx, id, qid, request.GetString("answer", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerTrashEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"trash_entry",
		mcp.WithDescription("Move an entry to the trash."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to trash."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.TrashEntry(ctx, id, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRestoreEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"restore_entry",
		mcp.WithDescription("Take an entry out of the trash."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to restore."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.TrashEntry(ctx, id, true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List entries the way the journal views do, newest first."),
		mcp.WithString("category",
			mcp.Description("Active category, defaults to daily. Coarser categories include finer ones when configured."),
			categoryEnum,
		),
		mcp.WithString("view",
			mcp.Description("Optional global view."),
			mcp.Enum("trash", "stats", "streak", "atlas", "gallery", "onThisDay", "tags"),
		),
		mcp.WithString("search", mcp.Description("Case-insensitive text filter, or #tag in the tags view.")),
		mcp.WithString("mood", mcp.Description("Only entries with this mood.")),
		mcp.WithString("from", mcp.Description("Lower date bound: YYYY-MM-DD, today, yesterday or a window like 7d.")),
		mcp.WithString("to", mcp.Description("Upper date bound, included whole.")),
		mcp.WithBoolean("has_photo", mcp.Description("Only entries with a photo.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries, default 50.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p := query.Params{
			Category: request.GetString("category", ""),
			View:     request.GetString("view", ""),
			Search:   request.GetString("search", ""),
			Mood:     request.GetString("mood", ""),
			From:     request.GetString("from", ""),
			To:       request.GetString("to", ""),
			HasPhoto: request.GetBool("has_photo", false),
		}
		entries, err := svc.ListEntries(ctx, p, request.GetInt("limit", 50))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"entries": entries,
			"count":   len(entries),
		})
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search titles, text, answers, moods, locations and tags across all categories."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results, default 20."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)
		entries, err := svc.SearchEntries(ctx, q, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   q,
			"entries": entries,
			"count":   len(entries),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch one entry with its answers."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerNeighborTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"neighbor_entry",
		mcp.WithDescription("Step to the next (older) or previous (newer) entry in the same category view."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Current entry identifier."),
		),
		mcp.WithString("direction",
			mcp.Description("next or prev, default next."),
			mcp.Enum("next", "prev"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		d, err := query.ParseDirection(request.GetString("direction", string(query.Next)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Neighbor(ctx, id, d)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if dto == nil {
			return mcp.NewToolResultText(fmt.Sprintf("no %s entry", d)), nil
		}
		return toJSONResult(dto)
	})
}

func registerListQuestionsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_questions",
		mcp.WithDescription("List the question catalogue."),
		mcp.WithString("category",
			mcp.Description("Only questions of this category."),
			categoryEnum,
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		qs, err := svc.Questions(ctx, request.GetString("category", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"questions": qs,
			"count":     len(qs),
		})
	})
}

func registerStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"journal_stats",
		mcp.WithDescription("Summarize writing activity: counts, words, moods, locations and streaks."),
		mcp.WithString("window",
			mcp.Description("Look-back window such as 7d, 4w or 1y. Empty covers all time."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Stats(ctx, request.GetString("window", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func optionalString(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func optionalBool(args map[string]any, key string) *bool {
	v, ok := args[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
