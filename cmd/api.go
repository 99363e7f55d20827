package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/desertthunder/spotr/internal/ui"
	"github.com/urfave/cli/v3"
)

// APIMe shows the authorized user's profile.
func (r *Runner) APIMe(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	user, err := client.Me(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	r.writePlainln("%s", ui.Title(name))
	r.writePlainln("ID: %s", user.ID)
	if user.Email != "" {
		r.writePlainln("Email: %s", user.Email)
	}
	if user.Product != "" {
		r.writePlainln("Product: %s", user.Product)
	}
	return r.writePlainln("Followers: %d", user.Followers.Total)
}

// APIPlaylists lists the authorized user's playlists.
func (r *Runner) APIPlaylists(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	page, err := client.MyPlaylists(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlainln("%s", ui.Title(fmt.Sprintf("Playlists (%d total)", page.Total)))
	for _, p := range page.Items {
		r.writePlainln("%s  %s", p.Name, ui.Help(fmt.Sprintf("%d tracks, %s", p.Tracks.Total, p.ID)))
	}
	if page.HasNext() {
		return r.writePlainln("%s", ui.Help(fmt.Sprintf("showing %d, use --offset %d for more", len(page.Items), page.Offset+len(page.Items))))
	}
	return nil
}

// APITrack fetches a single track by bare ID or spotify:track: URI.
func (r *Runner) APITrack(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	identifier := cmd.StringArg("id")
	if identifier == "" {
		return fmt.Errorf("%w: track ID or URI", shared.ErrMissingArgument)
	}
	id, err := spotify.GetID(identifier, spotify.TypeTrack)
	if err != nil {
		return err
	}

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	track, err := client.Track(ctx, id, "")
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlainln("%s", ui.Title(track.Name))
	r.writePlainln("Artists: %s", artistNames(track.Artists))
	r.writePlainln("Album: %s", track.Album.Name)
	r.writePlainln("Duration: %s", formatDuration(track.DurationMS))
	return r.writePlainln("URI: %s", track.URI)
}

// APISearch searches the catalog for the given query.
func (r *Runner) APISearch(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	types, err := spotify.ParseResourceTypes(cmd.String("type"))
	if err != nil {
		return err
	}

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	results, err := client.Search(ctx, query, types, cmd.Int("limit"), 0, "")
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if results.Tracks != nil {
		r.writePlainln(ui.Title("Tracks"))
		for _, t := range results.Tracks.Items {
			r.writePlainln("%s — %s  %s", t.Name, artistNames(t.Artists), ui.Help(t.URI))
		}
	}
	if results.Albums != nil {
		r.writePlainln(ui.Title("Albums"))
		for _, a := range results.Albums.Items {
			r.writePlainln("%s — %s  %s", a.Name, artistNames(a.Artists), ui.Help(a.URI))
		}
	}
	if results.Artists != nil {
		r.writePlainln(ui.Title("Artists"))
		for _, a := range results.Artists.Items {
			r.writePlainln("%s  %s", a.Name, ui.Help(a.URI))
		}
	}
	if results.Playlists != nil {
		r.writePlainln(ui.Title("Playlists"))
		for _, p := range results.Playlists.Items {
			r.writePlainln("%s by %s  %s", p.Name, p.Owner.DisplayName, ui.Help(p.URI))
		}
	}
	return nil
}

// APIGet fetches any resource by bare ID, spotify: URI or open.spotify.com
// URL and prints it.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	identifier := cmd.StringArg("identifier")
	if identifier == "" {
		return fmt.Errorf("%w: resource URI or URL", shared.ErrMissingArgument)
	}

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	resource, err := client.Get(ctx, identifier)
	if err != nil {
		return err
	}

	return r.writeJSON(resource, cmd.Bool("pretty"))
}

// APISaved lists the authorized user's saved tracks.
func (r *Runner) APISaved(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	client, err := r.client(cmd.String("profile"))
	if err != nil {
		return err
	}

	page, err := client.SavedTracks(ctx, cmd.Int("limit"), cmd.Int("offset"), "")
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlainln("%s", ui.Title(fmt.Sprintf("Saved tracks (%d total)", page.Total)))
	for _, saved := range page.Items {
		t := saved.Track
		r.writePlainln("%s — %s  %s", t.Name, artistNames(t.Artists), ui.Help(formatDuration(t.DurationMS)))
	}
	return nil
}

func artistNames(artists []spotify.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func formatDuration(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
