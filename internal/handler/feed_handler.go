package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/db"
)

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// RSSFeed 输出最近 20 篇官方帖子的 RSS 2.0 订阅源，描述为渲染后的 HTML。
func (a *API) RSSFeed(c *gin.Context) {
	posts, err := a.posts.LatestBygod(20)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.cfg.SiteName + "最新内容",
			Link:        a.cfg.SiteBaseURL + "/rss/",
			Description: a.cfg.SiteName + "上发布的最新内容",
		},
	}

	for i := range posts {
		post := &posts[i]
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       post.Title,
			Link:        a.cfg.SiteBaseURL + post.AbsoluteURL(),
			Description: post.ContentMD,
			PubDate:     post.CreatedAt.Format(time.RFC1123Z),
		})
	}

	writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap 输出全站帖子的 XML 站点地图：官方帖子权重 0.7，普通帖子 0.5，
// 更新时间取最后编辑时间。
func (a *API) Sitemap(c *gin.Context) {
	official, err := a.posts.ListByOfficial(true)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	regular, err := a.posts.ListByOfficial(false)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	urlset := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	a.appendSitemapURLs(&urlset, official, "0.7")
	a.appendSitemapURLs(&urlset, regular, "0.5")

	writeXML(c, "application/xml; charset=utf-8", urlset)
}

func (a *API) appendSitemapURLs(urlset *sitemapURLSet, posts []db.Post, priority string) {
	for i := range posts {
		post := &posts[i]
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:      a.cfg.SiteBaseURL + post.AbsoluteURL(),
			LastMod:  post.UpdatedAt.Format("2006-01-02"),
			Priority: priority,
		})
	}
}

func writeXML(c *gin.Context, contentType string, payload interface{}) {
	out, err := xml.Marshal(payload)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
