package gtrends

import "encoding/xml"

type rssFeed struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Traffic     string `xml:"approx_traffic"`
	Description string `xml:"description"`
}

// TrendingSearch is one entry from the daily trending searches feed.
type TrendingSearch struct {
	Title       string
	Traffic     string
	Description string
}
