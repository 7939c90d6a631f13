package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenbroker/cmd/app/commands"
	"github.com/allisson/tokenbroker/internal/app"
	"github.com/allisson/tokenbroker/internal/config"
	tokenService "github.com/allisson/tokenbroker/internal/token/service"
)

var kmsKeyURIFlag = &cli.StringFlag{
	Name:  "kms-key-uri",
	Value: "",
	Usage: "Wrap the key material with this KMS key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
}

// openKeeper opens the KMS keeper named by uri, or returns nil when uri is empty.
func openKeeper(ctx context.Context, uri string, logger *slog.Logger) (tokenService.KMSKeeper, func(), error) {
	if uri == "" {
		return nil, func() {}, nil
	}
	keeper, err := tokenService.OpenKMSKeeper(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	return keeper, func() {
		if err := keeper.Close(); err != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", err))
		}
	}, nil
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-hmac-secret",
			Usage: "Generate a random HS256 signing secret (TOKEN_HMAC_SECRET_KEY needs at least 32 bytes)",
			Flags: []cli.Flag{kmsKeyURIFlag},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				logger := container.Logger()

				keeper, closeKeeper, err := openKeeper(ctx, cmd.String("kms-key-uri"), logger)
				if err != nil {
					return err
				}
				defer closeKeeper()

				return commands.RunCreateHMACSecret(
					ctx,
					keeper,
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "create-rsa-key",
			Usage: "Generate an RS256 key pair as RSAKeyValue XML files",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output-dir",
					Aliases: []string{"o"},
					Value:   "keys",
					Usage:   "Directory receiving public.xml and private.xml",
				},
				&cli.IntFlag{
					Name:    "bits",
					Aliases: []string{"b"},
					Value:   2048,
					Usage:   "RSA modulus size in bits",
				},
				kmsKeyURIFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				logger := container.Logger()

				keeper, closeKeeper, err := openKeeper(ctx, cmd.String("kms-key-uri"), logger)
				if err != nil {
					return err
				}
				defer closeKeeper()

				return commands.RunCreateRSAKey(
					ctx,
					keeper,
					logger,
					commands.DefaultIO().Writer,
					cmd.String("output-dir"),
					int(cmd.Int("bits")),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
