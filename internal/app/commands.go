package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/dstk/internal/inputs"
	"github.com/five82/dstk/pkg/dstk"
)

func (s *session) commands() []*cobra.Command {
	return []*cobra.Command{
		s.ip2coordinatesCmd(),
		s.street2coordinatesCmd(),
		s.coordinates2politicsCmd(),
		s.coordinates2statisticsCmd(),
		s.text2placesCmd(),
		s.text2peopleCmd(),
		s.text2timesCmd(),
		s.text2sentencesCmd(),
		s.text2sentimentCmd(),
		s.geocodeCmd(),
		s.htmlCmd("html2text", "Extract the visible text of HTML files", func(ctx context.Context, c dstk.Service, html string) (string, error) {
			out, err := c.HTML2Text(ctx, html)
			return out.Text, err
		}),
		s.htmlCmd("html2story", "Extract the main story of HTML pages, dropping navigation and ads", func(ctx context.Context, c dstk.Service, html string) (string, error) {
			out, err := c.HTML2Story(ctx, html)
			return out.Story, err
		}),
		s.file2textCmd(),
	}
}

// lines returns args, or the lines of stdin when there are none.
func (s *session) lines(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	lines, err := inputs.ReadLines(s.streams.In)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, usagef("no inputs given on the command line or standard input")
	}
	return lines, nil
}

// text joins args into one document, or reads all of stdin.
func (s *session) text(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	return inputs.ReadAll(s.streams.In)
}

func (s *session) coordinates(args []string) ([]dstk.Coordinates, error) {
	values, err := s.lines(args)
	if err != nil {
		return nil, err
	}
	coords := make([]dstk.Coordinates, 0, len(values))
	for _, v := range values {
		c, err := dstk.ParseCoordinates(v)
		if err != nil {
			return nil, usageError{err: err}
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (s *session) ip2coordinatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ip2coordinates [ip...]",
		Short:   "Locate IP addresses",
		Example: "  dstk ip2coordinates 67.169.73.113 71.198.248.36",
		RunE: func(cmd *cobra.Command, args []string) error {
			ips, err := s.lines(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			result, err := c.IP2Coordinates(ctx, ips...)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"ip_address", "latitude", "longitude", "country_name", "country_code", "country_code3",
				"region", "locality", "postal_code", "dma_code", "area_code")
			if err != nil {
				return err
			}
			for _, ip := range unique(ips) {
				loc := result[ip]
				if loc == nil {
					if err := t.row(append([]string{ip}, blanks(10)...)...); err != nil {
						return err
					}
					continue
				}
				if err := t.row(ip,
					looseFloat(loc.Latitude), looseFloat(loc.Longitude),
					loc.CountryName, loc.CountryCode, loc.CountryCode3,
					loc.Region, loc.Locality, loc.PostalCode,
					optionalInt(loc.DMACode), optionalInt(loc.AreaCode),
				); err != nil {
					return err
				}
			}
			return t.flush()
		},
	}
}

func (s *session) street2coordinatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "street2coordinates [address...]",
		Short:   "Geocode street addresses",
		Example: `  dstk street2coordinates "2543 Graystone Pl, Simi Valley, CA 93065"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := s.lines(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			result, err := c.Street2Coordinates(ctx, addresses...)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"address", "latitude", "longitude", "street_address", "street_number", "street_name",
				"locality", "region", "country_name", "country_code", "country_code3", "fips_county", "confidence")
			if err != nil {
				return err
			}
			for _, address := range unique(addresses) {
				loc := result[address]
				if loc == nil {
					if err := t.row(append([]string{address}, blanks(12)...)...); err != nil {
						return err
					}
					continue
				}
				if err := t.row(address,
					looseFloat(loc.Latitude), looseFloat(loc.Longitude),
					loc.StreetAddress, loc.StreetNumber, loc.StreetName,
					loc.Locality, loc.Region, loc.CountryName, loc.CountryCode, loc.CountryCode3,
					loc.FIPSCounty, looseFloat(loc.Confidence),
				); err != nil {
					return err
				}
			}
			return t.flush()
		},
	}
}

func (s *session) coordinates2politicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "coordinates2politics [lat,lon...]",
		Short:   "List the countries, states and districts containing coordinates",
		Example: "  dstk coordinates2politics 37.76,-122.42",
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := s.coordinates(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			results, err := c.Coordinates2Politics(ctx, coords...)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"latitude", "longitude", "name", "code", "type", "friendly_type")
			if err != nil {
				return err
			}
			for _, r := range results {
				for _, p := range r.Politics {
					if err := t.row(
						looseFloat(r.Location.Latitude), looseFloat(r.Location.Longitude),
						p.Name, p.Code, p.Type, p.FriendlyType,
					); err != nil {
						return err
					}
				}
			}
			return t.flush()
		},
	}
}

func (s *session) coordinates2statisticsCmd() *cobra.Command {
	var statistics []string
	cmd := &cobra.Command{
		Use:     "coordinates2statistics [lat,lon...]",
		Short:   "Look up population, climate and land statistics for coordinates",
		Example: "  dstk coordinates2statistics --statistics population_density,elevation 37.76,-122.42",
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := s.coordinates(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			results, err := c.Coordinates2Statistics(ctx, coords, statistics...)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"latitude", "longitude", "statistic", "value", "units", "description", "source_name")
			if err != nil {
				return err
			}
			for _, r := range results {
				names := make([]string, 0, len(r.Statistics))
				for name := range r.Statistics {
					names = append(names, name)
				}
				slices.Sort(names)
				for _, name := range names {
					stat := r.Statistics[name]
					if err := t.row(
						looseFloat(r.Location.Latitude), looseFloat(r.Location.Longitude),
						name, stat.String(), stat.Units, stat.Description, stat.SourceName,
					); err != nil {
						return err
					}
				}
			}
			return t.flush()
		},
	}
	cmd.Flags().StringSliceVar(&statistics, "statistics", nil, "statistic names to return (default: the server's selection)")
	return cmd
}

func (s *session) text2placesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "text2places [text...]",
		Short:   "Find place names in text",
		Example: `  echo "Spain and Cairo, Egypt" | dstk text2places`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := s.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			places, err := c.Text2Places(ctx, text)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"latitude", "longitude", "name", "type", "start_index", "end_index", "matched_string")
			if err != nil {
				return err
			}
			for _, p := range places {
				if err := t.row(
					looseFloat(p.Latitude), looseFloat(p.Longitude), p.Name, p.Type,
					looseInt(p.StartIndex), looseInt(p.EndIndex), p.MatchedString,
				); err != nil {
					return err
				}
			}
			return t.flush()
		},
	}
}

func (s *session) text2peopleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text2people [text...]",
		Short: "Find people's names in text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := s.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			people, err := c.Text2People(ctx, text)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"matched_string", "first_name", "surnames", "title", "gender", "start_index", "end_index")
			if err != nil {
				return err
			}
			for _, p := range people {
				if err := t.row(
					p.MatchedString, p.FirstName, p.Surnames, p.Title, p.Gender,
					fmt.Sprint(p.StartIndex), fmt.Sprint(p.EndIndex),
				); err != nil {
					return err
				}
			}
			return t.flush()
		},
	}
}

func (s *session) text2timesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text2times [text...]",
		Short: "Find dates and times in text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := s.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			times, err := c.Text2Times(ctx, text)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"matched_string", "time_string", "time_seconds", "is_relative", "duration", "start_index", "end_index")
			if err != nil {
				return err
			}
			for _, tm := range times {
				if err := t.row(
					tm.MatchedString, tm.TimeString, formatFloat(tm.TimeSeconds),
					fmt.Sprint(tm.IsRelative), fmt.Sprint(tm.Duration),
					fmt.Sprint(tm.StartIndex), fmt.Sprint(tm.EndIndex),
				); err != nil {
					return err
				}
			}
			return t.flush()
		},
	}
}

func (s *session) text2sentencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text2sentences [text...]",
		Short: "Keep only the parts of text that read like sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := s.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			out, err := c.Text2Sentences(ctx, text)
			if err != nil {
				return err
			}
			return writeText(s.streams.Out, out.Sentences)
		},
	}
}

func (s *session) text2sentimentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text2sentiment [text...]",
		Short: "Score the sentiment of text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := s.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			out, err := c.Text2Sentiment(ctx, text)
			if err != nil {
				return err
			}
			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders, "score")
			if err != nil {
				return err
			}
			if err := t.row(formatFloat(out.Score)); err != nil {
				return err
			}
			return t.flush()
		},
	}
}

func (s *session) geocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "geocode [address...]",
		Short:   "Geocode addresses through the Google-compatible API",
		Example: `  dstk geocode "2543 Graystone Pl, Simi Valley, CA 93065"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := s.lines(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}

			t, err := newTable(s.streams.Out, s.cfg.ShowHeaders,
				"address", "formatted_address", "latitude", "longitude", "location_type")
			if err != nil {
				return err
			}
			for _, address := range addresses {
				resp, err := c.Geocode(ctx, address)
				if err != nil {
					return err
				}
				if len(resp.Results) == 0 {
					if err := t.row(append([]string{address}, blanks(4)...)...); err != nil {
						return err
					}
					continue
				}
				for _, r := range resp.Results {
					if err := t.row(address, r.FormattedAddress,
						formatFloat(r.Geometry.Location.Lat), formatFloat(r.Geometry.Location.Lng),
						r.Geometry.LocationType,
					); err != nil {
						return err
					}
				}
			}
			return t.flush()
		},
	}
}

type htmlConverter func(ctx context.Context, c dstk.Service, html string) (string, error)

func (s *session) htmlCmd(name, short string, convert htmlConverter) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [file-or-dir...]",
		Short: short,
		Long: short + `.

Directories are searched recursively. With no arguments a single document
is read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				html, err := inputs.ReadAll(s.streams.In)
				if err != nil {
					return err
				}
				c, err := s.client(ctx)
				if err != nil {
					return err
				}
				text, err := convert(ctx, c, html)
				if err != nil {
					return err
				}
				return writeText(s.streams.Out, text)
			}

			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			return s.convertFiles(ctx, args, func(ctx context.Context, path string) (string, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return "", fmt.Errorf("read %s: %w", path, err)
				}
				return convert(ctx, c, string(data))
			})
		},
	}
}

func (s *session) file2textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file2text [file-or-dir...]",
		Short: "Extract text from PDF, Word, Excel, image and HTML files",
		Long: `Upload documents and print the text the server extracts from them.
Images are run through OCR.

Directories are searched recursively and files are uploaded in parallel
(see --concurrency); results are printed in input order. With no arguments
a single document is read from standard input.`,
		Example: "  dstk -H file2text scans/ report.pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				data, err := io.ReadAll(s.streams.In)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				c, err := s.client(ctx)
				if err != nil {
					return err
				}
				text, err := c.File2Text(ctx, "stdin", data)
				if err != nil {
					return err
				}
				return writeText(s.streams.Out, text)
			}

			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			return s.convertFiles(ctx, args, c.File2TextFromPath)
		},
	}
}
