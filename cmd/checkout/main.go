package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cartstore"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/repository/cartslot"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
)

// tokenTTL is how long a minted checkout credential stays valid.
const tokenTTL = 30 * 24 * time.Hour

func main() {
	var (
		cmd       string
		userID    string
		address   string
		token     string
		productID string
		sessionID string
		apiURL    string
	)
	flag.StringVar(&cmd, "cmd", "", "One of: login, logout, add, show, bkash, stripe, complete")
	flag.StringVar(&userID, "user", "", "Buyer user ID (login)")
	flag.StringVar(&address, "address", "", "Delivery address (login)")
	flag.StringVar(&token, "token", "", "Bearer token from a previous login")
	flag.StringVar(&productID, "product", "", "Product ID to add to the cart")
	flag.StringVar(&sessionID, "session", "", "Stripe session ID for complete")
	flag.StringVar(&apiURL, "api", "http://localhost:8001", "Storefront API base URL")
	flag.Parse()

	if cmd == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[checkout] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	tokens := tokenrepo.NewPostgres(pool)
	products := productrepo.NewPostgres(pool, logger)
	carts := cartstore.New(cartslot.NewPostgres(pool))
	client := checkout.New(apiURL, carts, logger)
	client.VerifyBeforeOrder = cfg.VerifyBeforeOrder

	switch cmd {
	case "login":
		if userID == "" {
			logger.Fatalf("login requires -user")
		}
		minted := uuid.NewString()
		err := tokens.Create(ctx, tokenrepo.Token{
			Token:     minted,
			UserID:    userID,
			Address:   address,
			ExpiresAt: time.Now().Add(tokenTTL),
		})
		if err != nil {
			logger.Fatalf("create token: %v", err)
		}
		fmt.Println(minted)

	case "logout":
		tok := mustToken(ctx, logger, tokens, token)
		if err := tokens.Delete(ctx, tok.Token); err != nil {
			logger.Fatalf("delete token: %v", err)
		}
		logger.Printf("signed out user=%s", tok.UserID)

	case "add":
		tok := mustToken(ctx, logger, tokens, token)
		if productID == "" {
			logger.Fatalf("add requires -product")
		}
		product, err := products.GetByID(ctx, productID)
		if err != nil {
			logger.Fatalf("get product %s: %v", productID, err)
		}
		identity := domain.UserIdentity(tok.UserID)
		cart, err := carts.Resolve(ctx, identity)
		if err != nil {
			logger.Fatalf("resolve cart: %v", err)
		}
		cart = append(cart, domain.CartItem{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Quantity:    product.Quantity,
		})
		if err := carts.Set(ctx, identity, cart); err != nil {
			logger.Fatalf("save cart: %v", err)
		}
		fmt.Printf("%d item(s), total %s\n", len(cart), checkout.FormatTotal(checkout.Total(cart)))

	case "show":
		tok := mustToken(ctx, logger, tokens, token)
		cart, err := carts.Resolve(ctx, domain.UserIdentity(tok.UserID))
		if err != nil {
			logger.Fatalf("resolve cart: %v", err)
		}
		for _, entry := range cart {
			fmt.Printf("%s  %s  %s\n", entry.ID, entry.Name, checkout.FormatTotal(entry.Price))
		}
		fmt.Printf("total %s\n", checkout.FormatTotal(checkout.Total(cart)))

	case "bkash":
		sess := mustSession(ctx, logger, tokens, token)
		redirect, err := client.StartBkash(ctx, sess)
		if err != nil {
			logger.Fatalf("start bkash: %v", err)
		}
		fmt.Println(redirect)

	case "stripe":
		sess := mustSession(ctx, logger, tokens, token)
		redirect, newSessionID, err := client.StartStripe(ctx, sess)
		if err != nil {
			logger.Fatalf("start stripe: %v", err)
		}
		fmt.Println(redirect)
		fmt.Println(newSessionID)

	case "complete":
		sess := mustSession(ctx, logger, tokens, token)
		order, err := client.CompleteOrder(ctx, sess, sessionID)
		if err != nil {
			logger.Fatalf("complete order: %v", err)
		}
		fmt.Printf("order %s created, amount %s\n", order.ID, checkout.FormatTotal(order.Payment.Amount))

	default:
		logger.Fatalf("unknown command %q", cmd)
	}
}

func mustToken(ctx context.Context, logger *log.Logger, tokens tokenrepo.Repository, raw string) *tokenrepo.Token {
	if raw == "" {
		logger.Fatalf("this command requires -token")
	}
	tok, err := tokens.Get(ctx, raw)
	if err != nil {
		logger.Fatalf("look up token: %v", err)
	}
	return tok
}

func mustSession(ctx context.Context, logger *log.Logger, tokens tokenrepo.Repository, raw string) checkout.Session {
	tok := mustToken(ctx, logger, tokens, raw)
	return checkout.Session{
		Identity: domain.UserIdentity(tok.UserID),
		Token:    tok.Token,
		Address:  tok.Address,
	}
}
