package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/qfeed/qfeed-backend/internal/requestdata"
)

const (
  defaultPageLimit = 20
  maxPageLimit     = 100
)

// currentAccountID reads the authenticated account set by the auth
// middleware; uuid.Nil means the request slipped past it.
func currentAccountID(c *gin.Context) uuid.UUID {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    return uuid.Nil
  }
  return rd.AccountID
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    return uuid.Nil, false
  }
  return id, true
}

func paging(c *gin.Context) (offset, limit int) {
  offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
  if offset < 0 {
    offset = 0
  }
  limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
  if limit <= 0 {
    limit = defaultPageLimit
  }
  if limit > maxPageLimit {
    limit = maxPageLimit
  }
  return offset, limit
}
