package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"justus/domain/chat"
	"justus/infrastructure/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Config error: ", err)
	}
	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	section := flag.String("section", "all", "users, conversations, messages, raw or all")
	prefix := flag.String("prefix", "", "Key prefix scanned by the raw section")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer func() { _ = db.Close() }()

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	in := inspector{
		cfg:           cfg,
		users:         storage.NewUserRepository(db, logger),
		conversations: storage.NewConversationRepository(db, logger),
		messages:      storage.NewMessageRepository(db, logger, nil),
		db:            db,
	}

	sections := map[string]func() error{
		"users":         in.printUsers,
		"conversations": in.printConversations,
		"messages":      in.printMessages,
		"raw":           func() error { return in.printRaw(*prefix) },
	}
	order := []string{"users", "conversations", "messages"}
	if *section != "all" {
		if _, ok := sections[*section]; !ok {
			log.Fatalf("Unknown section %q", *section)
		}
		order = []string{*section}
	}
	for _, name := range order {
		if err = sections[name](); err != nil {
			log.Fatal(err)
		}
	}
}

type inspector struct {
	cfg           Config
	users         *storage.UserRepository
	conversations *storage.ConversationRepository
	messages      *storage.MessageRepository
	db            *badger.DB
}

func (in inspector) header(title string, count int) {
	text := fmt.Sprintf("  ====== %s (%d) ======", title, count)
	if in.cfg.Colours {
		text = color.New(color.BgBlack, color.FgGreen).Render(text)
	}
	fmt.Println(text)
}

func (in inspector) printUsers() error {
	users, err := in.users.ListUsers()
	if err != nil {
		return err
	}
	in.header("Users", len(users))
	table := newTable("ID", "Username", "Display name", "Created")
	for _, u := range limit(users, in.cfg.Limit) {
		table.Append([]string{u.ID, u.Username, u.DisplayName, u.CreatedAt.Format(time.RFC3339)})
	}
	table.Render()
	return nil
}

func (in inspector) printConversations() error {
	convs, err := in.conversations.ListConversations()
	if err != nil {
		return err
	}
	in.header("Conversations", len(convs))
	table := newTable("ID", "Participant A", "Participant B", "Key")
	for _, c := range limit(convs, in.cfg.Limit) {
		table.Append([]string{c.ID, c.ParticipantA, c.ParticipantB, c.Key})
	}
	table.Render()
	return nil
}

func (in inspector) printMessages() error {
	convs, err := in.conversations.ListConversations()
	if err != nil {
		return err
	}
	var all []chat.Message
	for _, c := range convs {
		messages, err := in.messages.GetConversationMessages(c.ID)
		if err != nil {
			return err
		}
		all = append(all, messages...)
	}
	in.header("Messages", len(all))
	table := newTable("Time", "Conversation", "Sender", "Type", "State", "Content")
	for _, m := range limit(all, in.cfg.Limit) {
		table.Append([]string{
			m.Timestamp.Format("2006-01-02 15:04:05"),
			shortID(m.ConversationID),
			m.SenderID,
			string(m.Type),
			state(m),
			m.Content,
		})
	}
	table.Render()
	return nil
}

func (in inspector) printRaw(prefix string) error {
	table := newTable("Key", "Type", "Detail")
	count := 0
	err := in.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				kind, detail := storage.Describe(key, v)
				table.Append([]string{key, kind, detail})
				return nil
			})
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return err
	}
	in.header("Raw "+prefix, count)
	table.Render()
	return nil
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func state(m chat.Message) string {
	var flags []string
	if m.Delivered {
		flags = append(flags, "delivered")
	}
	if m.Read {
		flags = append(flags, "read")
	}
	if m.Edited {
		flags = append(flags, "edited")
	}
	if m.Deleted {
		flags = append(flags, "deleted")
	}
	return strings.Join(flags, ",")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// openDB opens read-only, so a running server keeps its lock.
func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
